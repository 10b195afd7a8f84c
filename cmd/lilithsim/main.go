// Command lilithsim steps a level without a window and reports what the
// walkers are doing.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/milk9111/tomorrow/ecs"
	"github.com/milk9111/tomorrow/ecs/component"
	"github.com/milk9111/tomorrow/simulation"
)

func main() {
	levelName := flag.String("level", "", "level name in levels/ (basename, .json optional)")
	seed := flag.Int64("seed", 1, "random seed; 0 picks one from the clock")
	ticks := flag.Int("ticks", 60*30, "number of fixed ticks to run")
	every := flag.Int("every", 60, "report every N ticks, 0 for the final report only")
	debug := flag.Bool("debug", false, "log walker state transitions")
	flag.Parse()

	log.SetOutput(os.Stdout)

	counts := map[string]int{}
	sim, err := simulation.New(simulation.Options{
		Level:   *levelName,
		Seed:    *seed,
		Debug:   *debug,
		Observe: func(evt ecs.Event) { counts[evt.Type]++ },
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("lilithsim: seed=%d ticks=%d", sim.Seed, *ticks)

	for i := 0; i < *ticks; i++ {
		sim.Step()
		if *every > 0 && sim.Ticks()%*every == 0 {
			report(sim)
		}
	}
	report(sim)
	log.Printf("lilithsim: events %v", counts)
}

func report(sim *simulation.Simulation) {
	w := sim.World
	ecs.ForEach3(w, component.LilithStateComponent.Kind(), component.TransformComponent.Kind(), component.HealthComponent.Kind(), func(e ecs.Entity, state *component.LilithState, t *component.Transform, hp *component.Health) {
		log.Printf("tick=%d lilith=%v phase=%s surface=%s pos=(%.2f, %.2f) ccw=%v hp=%d", sim.Ticks(), e, state.Phase, state.Surface, t.X, t.Y, state.OppositeDirection, hp.Current)
	})
}
