package wayfinder_test

import (
	"context"
	"fmt"

	"github.com/aretw0/wayfinder"
	"github.com/aretw0/wayfinder/pkg/adapters/sim"
)

func Example() {
	ctx := context.Background()
	loop := sim.NewFrameLoop()
	routes := sim.NewRouteTable(map[string]sim.Route{"Home": {}, "Detail": {}})
	trace := &sim.Trace{}

	nav := wayfinder.New(
		wayfinder.WithContentBuilder(routes),
		wayfinder.WithAnimationDriver(sim.NewAnimator(loop)),
		wayfinder.WithScheduler(loop),
		wayfinder.WithLifecycleHooks(trace.Hooks()),
	)
	main, err := nav.NewContainer(ctx, "main")
	if err != nil {
		panic(err)
	}
	trace.Reset()

	main.Path().Push("Home", "")
	loop.Drain()

	for _, call := range trace.Calls() {
		fmt.Println(call)
	}
	fmt.Println(main.Names())
	// Output:
	// navBar.ON_WILL_HIDE
	// navBar.ON_HIDE
	// Home.ON_WILL_SHOW
	// Home.ON_SHOW
	// Home.ON_ACTIVE
	// [Home]
}
