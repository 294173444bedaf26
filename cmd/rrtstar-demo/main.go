// Package main runs the RRT* kernel against the Dubins vehicle steering
// model over a console-configurable bounded workspace and goal disk,
// printing the best trajectory cost found after a fixed iteration budget.
package main

import (
	"context"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	"github.com/asadawan91/rrtstar/dubins"
	"github.com/asadawan91/rrtstar/rrtstar"
)

var logger = golog.NewDevelopmentLogger("rrtstar_demo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Iterations    int     `flag:"iterations,default=2000,usage=number of RRT* iterations to run"`
	XMax          float64 `flag:"xmax,default=20,usage=workspace width"`
	YMax          float64 `flag:"ymax,default=20,usage=workspace height"`
	GoalX         float64 `flag:"goalx,default=18,usage=goal center x"`
	GoalY         float64 `flag:"goaly,default=18,usage=goal center y"`
	GoalRadius    float64 `flag:"goalradius,default=1,usage=goal disk radius"`
	TurningRadius float64 `flag:"turningradius,default=1,usage=vehicle turning radius"`
	Seed          int64   `flag:"seed,default=1,usage=random seed"`
	ObstacleBox   bool    `flag:"obstaclebox,default=false,usage=place a box obstacle across the middle of the workspace"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	sys := &dubins.System{
		TurningRadii:  []float64{argsParsed.TurningRadius},
		DeltaDistance: 0.1,
		XMax:          argsParsed.XMax,
		YMax:          argsParsed.YMax,
		GoalCenter:    [2]float64{argsParsed.GoalX, argsParsed.GoalY},
		GoalRadius:    argsParsed.GoalRadius,
	}
	if argsParsed.ObstacleBox {
		mid := r3.Vector{X: argsParsed.XMax / 2, Y: argsParsed.YMax / 2, Z: 0}
		sys.CollisionFunc = dubins.NewBoxObstacle(
			r3.Vector{X: mid.X - 2, Y: 0, Z: 0},
			r3.Vector{X: mid.X + 2, Y: argsParsed.YMax, Z: 0},
		)
	}

	rng := rand.New(rand.NewSource(argsParsed.Seed))
	planner := rrtstar.NewPlanner[rrtstar.FloatCost, dubins.OptData](sys, rrtstar.DefaultOptions(), rng, logger)

	root := rrtstar.State{0, 0, 0}
	planner.Initialize(root)

	for i := 0; i < argsParsed.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := planner.Iteration(); err != nil {
			logger.Debugw("iteration skipped", "error", err, "iteration", i)
		}
	}

	traj, err := planner.GetBestTrajectory()
	if err != nil {
		logger.Warnw("no feasible trajectory found", "error", err)
		return nil
	}
	cost, _ := planner.BestCost()
	logger.Infow("best trajectory found", "states", len(traj.States), "length", traj.TotalVariation, "cost", cost)
	return nil
}
