// Package neat implements NeuroEvolution of Augmenting Topologies: genomes
// of innovation-numbered connection genes, speciation by compatibility
// distance, fitness-shared reproduction, and structural mutation building
// up from minimal, fully-connected starting networks.
//
// Basic usage:
//
//	options, err := neat.LoadOptions("run.ini")
//	if err != nil {
//		log.Fatalf("loading options: %v", err)
//	}
//
//	run, err := neat.NewRun(options, nil)
//	if err != nil {
//		log.Fatalf("creating run: %v", err)
//	}
//
//	problem := neat.Problem{Name: "xor", FitnessFunc: evalGenomes, Termination: neat.FitnessThreshold(threshold)}
//	winner, err := run.Evolve(context.Background(), problem)
//	if err != nil {
//		log.Fatalf("evolving: %v", err)
//	}
package neat
