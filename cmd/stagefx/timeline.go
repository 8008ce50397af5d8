package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/stagefx/config"
	"github.com/lixenwraith/stagefx/content"
	"github.com/lixenwraith/stagefx/engine"
	"github.com/lixenwraith/stagefx/motion"
	"github.com/lixenwraith/stagefx/timeline"
	"github.com/lixenwraith/stagefx/transition"
)

var (
	replayReduced  bool
	replayTo       string
	replayRetarget string
	replayAfter    time.Duration
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Replay a transition on a virtual clock and print its phases",
	Long: `Replays one page transition without a terminal, printing each event with its
offset from the request. Use --retarget to issue a second request mid-flight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := config.LoadAuto(configPath)
		if err != nil {
			return err
		}
		return replay(cmd.OutOrStdout(), cfg, replayOptions{
			reduced:  replayReduced,
			to:       transition.PageID(replayTo),
			retarget: transition.PageID(replayRetarget),
			after:    replayAfter,
		})
	},
}

func init() {
	f := timelineCmd.Flags()
	f.BoolVar(&replayReduced, "reduced", false, "replay the reduced motion timeline")
	f.StringVar(&replayTo, "to", string(content.About), "target page")
	f.StringVar(&replayRetarget, "retarget", "", "second target requested mid-flight")
	f.DurationVar(&replayAfter, "after", 300*time.Millisecond, "delay before the --retarget request")
}

type replayOptions struct {
	reduced  bool
	to       transition.PageID
	retarget transition.PageID
	after    time.Duration
}

// replay runs a transition from home to opts.to on a virtual clock and writes one line per event
func replay(w io.Writer, cfg config.Config, opts replayOptions) error {
	set, err := cfg.TimelineSet()
	if err != nil {
		return err
	}
	if opts.to == "" || opts.to == content.Home {
		return fmt.Errorf("target must differ from %q", content.Home)
	}

	start := time.Unix(0, 0)
	sched := engine.NewVirtualScheduler(start)
	o := transition.New(transition.Config[content.Page]{
		Scheduler: sched,
		Timelines: set,
		Policy:    motion.NewPolicy(motion.Static(opts.reduced), nil),
		Resolve:   content.Lookup,
		Initial:   content.Home,
	})
	defer o.Close()

	profile := timeline.MotionFull
	if opts.reduced {
		profile = timeline.MotionReduced
	}
	fmt.Fprintf(w, "profile %s, %s\n", profile, set.For(profile).Duration())

	o.Subscribe(transition.ObserverFunc(func(ev transition.Event) {
		fmt.Fprintf(w, "%+8dms  %-10s %s\n", ev.At.Sub(start).Milliseconds(), ev.Kind, describe(ev))
	}))

	o.RequestTransition(opts.to)
	if opts.retarget != "" {
		sched.Advance(opts.after)
		o.RequestTransition(opts.retarget)
	}

	for o.IsTransitioning() {
		next, ok := sched.NextDue()
		if !ok {
			return fmt.Errorf("transition stalled in %s", o.Phase())
		}
		sched.AdvanceTo(next)
	}
	return nil
}

func describe(ev transition.Event) string {
	switch ev.Kind {
	case transition.EventPhase:
		return fmt.Sprintf("%s -> %s  showing %s", ev.Previous, ev.Phase, ev.Displayed)
	case transition.EventRequested, transition.EventRetargeted:
		return fmt.Sprintf("target %s", ev.Target)
	case transition.EventStarted:
		return fmt.Sprintf("%s -> %s (%s)", ev.Displayed, ev.Target, ev.Profile)
	case transition.EventCompleted:
		return fmt.Sprintf("showing %s", ev.Displayed)
	}
	return ""
}
