/*
Package sim provides deterministic in-process implementations of the engine's
driven ports: a virtual-clock frame loop, an animation driver, a route table
content builder, a resizable window and a system bar recorder.

They back the simulate command, the inspector server and the engine tests.
*/
package sim
