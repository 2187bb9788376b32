/*
Package domain contains the core domain models of the wayfinder navigation engine.

It defines the entities shared by the reconciler, the transition orchestrator, the
lifecycle dispatcher and the adaptive split manager. This package is kept pure and
free of external dependencies like I/O or persistence.

# Key Entities

  - Destination: One logical page instance mounted (or cached) under a navigation container.
  - PathEntry: One element of the declarative path list supplied by application logic.
  - NodeRef: Tagged reference to the navigation bar, the home destination or a stack destination.
  - RecoveryRecord: Persisted shape of a stack entry, used to restore a prior session.
  - LifecycleHooks: Observability callbacks for lifecycle phases and transitions.
*/
package domain
