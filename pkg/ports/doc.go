/*
Package ports defines the driven ports (interfaces) of the wayfinder engine.

These interfaces decouple the navigation core from the renderer, the windowing
system, the animation timing system and persistence.

# Key Interfaces

  - ContentBuilder: Instantiates destinations from the declarative path list.
  - AnimationDriver: Starts and stops animations on the UI thread.
  - Scheduler: Posts deferred tasks on the frame pipeline.
  - GeometrySource: Reports the hosting window geometry.
  - SystemBarController: Applies system bar styles for full-page states.
  - StackStore: Persists recovery records between sessions.
  - DistributedLocker: Coordinates access to a persisted stack across instances.
*/
package ports
