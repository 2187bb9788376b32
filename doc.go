/*
Package wayfinder is a hierarchical navigation engine: it turns a declarative
path list into a live stack of destinations, animates the change, and tells
every page what happened to it through an ordered lifecycle.

# Concept

An application owns one PathStack per navigation container and mutates it
freely (push, pop, replace, set the whole list). Nothing happens immediately:
the container coalesces every change of a frame into one sync pass that

  - reconciles the path list against live destinations, reusing cached ones,
  - classifies the top change as PUSH, POP or REPLACE and picks an animation,
  - fires ON_INACTIVE/ON_WILL_HIDE before and ON_HIDE/ON_SHOW/ON_ACTIVE after it,
  - and, on wide landscape windows, splits the stack into a primary and a
    content partition.

The host supplies the platform through ports: a ContentBuilder that
instantiates pages, an AnimationDriver, a frame Scheduler, a GeometrySource
and a SystemBarController. pkg/adapters/sim provides deterministic in-process
versions of all of them.

# Usage

	loop := sim.NewFrameLoop()
	nav := wayfinder.New(
		wayfinder.WithContentBuilder(routes),
		wayfinder.WithAnimationDriver(sim.NewAnimator(loop)),
		wayfinder.WithScheduler(loop),
	)

	main, _ := nav.NewContainer(ctx, "main")
	main.Path().Push("Home", "")
	main.Path().Push("Detail", `{"id":42}`)
	loop.Drain() // one sync pass, one PUSH transition

Recovery records of a container can be persisted through any ports.StackStore
(memory, file, redis) with WithStore, then Persist and Restore.
*/
package wayfinder
