package main

import (
	"fmt"
	"github.com/callebjorkell/hyperion/internal/animation"
	"github.com/callebjorkell/hyperion/internal/button"
	"github.com/callebjorkell/hyperion/internal/config"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
	"os"
	"os/signal"
	"syscall"
)

var (
	app        = kingpin.New("hyperion", "LED panel driver")
	debug      = app.Flag("debug", "Turn on debug logging.").Bool()
	configFile = app.Flag("config", "Configuration file to read.").Default(config.DefaultFile).String()
	start      = app.Command("start", "Play the configured animations. The button skips to the next one.")
	clearCmd   = app.Command("clear", "Turn every LED off.")
	identify   = app.Command("identify", "Pulse each bus line in turn to check the wiring.")
	cycles     = identify.Flag("cycles", "Number of pulses per line.").Default("5").Int()
	version    = app.Command("version", "Show current version.")
)

var buildTime, buildVersion string

func showVersion() {
	if buildTime != "" && buildVersion != "" {
		fmt.Printf("%s (built: %s)\n", buildVersion, buildTime)
	} else {
		fmt.Println("hyperion: dev")
	}
}

func main() {
	cmd, err := app.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("%v: Try --help\n", err.Error())
		os.Exit(1)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if *debug {
		log.Info("Enabling debug output...")
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case start.FullCommand():
		startPlayer()
	case clearCmd.FullCommand():
		clearPanel()
	case identify.FullCommand():
		identifyPins()
	case version.FullCommand():
		showVersion()
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func readConfig() *config.Config {
	conf, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Unable to read configuration: %v", err)
	}
	return conf
}

func openOutput(conf *config.Config) device {
	hw, err := openHardware()
	if err != nil {
		log.Fatal(err)
	}
	dev, err := openDevice(conf, hw)
	if err != nil {
		log.Fatal(err)
	}
	return dev
}

func startPlayer() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	conf := readConfig()
	program, err := buildProgram(conf.Animations)
	if err != nil {
		log.Fatal(err)
	}

	dev := openOutput(conf)
	player := animation.NewPlayer(dev, program)

	events, err := button.InitButton(conf.Button)
	if err != nil {
		log.Fatal(err)
	}

	if err := player.Play(0); err != nil {
		log.Fatal(err)
	}

	for {
		select {
		case e := <-events:
			log.Infof("Event: %v", e)
			if e.Pressed {
				if err := player.Next(); err != nil {
					log.Warn("Unable to skip animation: ", err)
				}
			}
		case <-signalChan:
			log.Info("Shutting down...")
			if err := player.Close(); err != nil {
				log.Warn("Unable to turn the panel off: ", err)
			}
			if err := dev.Close(); err != nil {
				log.Warn(err)
			}
			log.Info("Done...")
			return
		}
	}
}

func clearPanel() {
	dev := openOutput(readConfig())
	defer func() {
		if err := dev.Close(); err != nil {
			log.Warn(err)
		}
	}()

	if err := dev.SetUniformBrightness(0); err != nil {
		log.Error(err)
		return
	}
	log.Info("Panel cleared")
}

func identifyPins() {
	conf := readConfig()
	if conf.Output != config.OutputChain {
		log.Fatalf("identify only works with the %s output", config.OutputChain)
	}
	hw, err := openHardware()
	if err != nil {
		log.Fatal(err)
	}
	pins, err := hw.pins(conf.Chain.Bus())
	if err != nil {
		log.Fatal(err)
	}
	if err := pulseLines(pins, *cycles, hostClock); err != nil {
		log.Fatal(err)
	}
}
