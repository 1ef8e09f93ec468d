// Command bunnuafeth is a reparenting, tiling X11 window manager.
package main

import (
	"os"

	"github.com/jezek/xgb"
	log "github.com/sirupsen/logrus"

	"github.com/kvark-wm/bunnuafeth/bar"
	"github.com/kvark-wm/bunnuafeth/config"
	"github.com/kvark-wm/bunnuafeth/input"
	"github.com/kvark-wm/bunnuafeth/wm"
	"github.com/kvark-wm/bunnuafeth/xconn"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("bunnuafeth: loading config")
	}

	conn, err := xconn.Connect()
	if err != nil {
		log.WithError(err).Fatal("bunnuafeth: connecting to X server")
	}

	binder := input.NewBinder(cfg.Hotkeys, cfg.MouseHotkeys)
	core := wm.NewCore(conn, binder)

	if err := core.Setup(); err != nil {
		log.WithError(err).Fatal("bunnuafeth: setup")
	}

	if b, err := bar.New(conn, core); err != nil {
		log.WithError(err).Warn("bunnuafeth: bar setup failed, continuing without a bar")
	} else {
		core.SetBar(b)
	}

	log.WithField("wm_name", wm.WmName).Info("bunnuafeth: entering event loop")
	run(conn, core)
}

// run is the cooperative event loop: wait for one event, drain
// whatever else already arrived, dispatch each in turn, then flush.
// Mirrors original_source/src/lib.rs's run() loop.
func run(conn *xconn.Conn, core *wm.Core) {
	for {
		ev, xerr := conn.WaitForEvent()
		if xerr != nil {
			log.WithField("error", xerr).Warn("bunnuafeth: wait_for_event error")
			continue
		}
		if ev == nil {
			log.Error("bunnuafeth: connection closed")
			os.Exit(1)
		}

		for ev != nil {
			core.HandleEvent(ev)

			var perr xgb.Error
			ev, perr = conn.PollForEvent()
			if perr != nil {
				log.WithField("error", perr).Warn("bunnuafeth: poll_for_event error")
				break
			}
		}

		conn.Flush()
	}
}
