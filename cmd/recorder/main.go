package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GQAdonis/Cap/internal/config"
	"github.com/GQAdonis/Cap/internal/display"
	"github.com/GQAdonis/Cap/internal/input"
	"github.com/GQAdonis/Cap/internal/recording"
)

type Application struct {
	config   *config.Config
	monitor  *input.Monitor
	recorder *recording.Recorder
	status   *recording.StatusLine
}

func NewApplication(cfg *config.Config) *Application {
	return &Application{config: cfg}
}

func (app *Application) Run() error {
	bounds, err := display.Bounds(app.config.Recording.Display)
	if err != nil {
		return fmt.Errorf("failed to resolve display bounds: %w", err)
	}

	app.monitor = input.StartMonitor()
	defer app.monitor.Close()

	app.recorder = recording.NewRecorder(app.config, bounds, app.monitor, nil)

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go app.handleSignals(sigChan)

	// Main application loop
	for {
		if done, err := app.showMenu(); done || err != nil {
			return err
		}
	}
}

func (app *Application) showMenu() (bool, error) {
	fmt.Println("\nCommands:")
	fmt.Println("1. Start recording")
	fmt.Println("2. Pause recording")
	fmt.Println("3. Resume recording")
	fmt.Println("4. Stop recording")
	fmt.Println("5. Exit")
	fmt.Print("Choose an option: ")

	var choice int
	if _, err := fmt.Scanln(&choice); err != nil {
		return false, fmt.Errorf("invalid input: %w", err)
	}

	switch choice {
	case 1:
		return false, app.startRecording()
	case 2:
		return false, app.recorder.Pause()
	case 3:
		return false, app.recorder.Resume()
	case 4:
		return false, app.stopRecording()
	case 5:
		return true, app.cleanup()
	default:
		fmt.Println("Invalid option")
		return false, nil
	}
}

func (app *Application) startRecording() error {
	if app.recorder.IsRecording() {
		fmt.Println("Already recording")
		return nil
	}
	if err := app.recorder.Start(); err != nil {
		return err
	}

	fmt.Printf("Recording cursor to %s ... Press Ctrl+C to stop.\n", app.recorder.SessionDir())
	app.status = recording.NewStatusLine(app.recorder)
	app.status.Start()
	return nil
}

func (app *Application) stopRecording() error {
	if !app.recorder.IsRecording() {
		fmt.Println("No recording in progress")
		return nil
	}
	if app.status != nil {
		app.status.Stop()
		app.status = nil
	}

	segments, err := app.recorder.Stop()
	if err != nil {
		return err
	}

	for _, segment := range segments {
		fmt.Printf("Segment %d: %d cursors, %d moves, %d clicks -> %s\n",
			segment.Index,
			len(segment.Response.Cursors),
			len(segment.Response.Moves),
			len(segment.Response.Clicks),
			segment.Dir,
		)
	}
	return nil
}

func (app *Application) cleanup() error {
	if app.recorder.IsRecording() {
		return app.stopRecording()
	}
	return nil
}

func (app *Application) handleSignals(sigChan chan os.Signal) {
	for sig := range sigChan {
		fmt.Printf("\nReceived signal: %v\n", sig)
		if app.recorder != nil && app.recorder.IsRecording() {
			fmt.Println("Stopping recording...")
			if err := app.stopRecording(); err != nil {
				log.Printf("Error stopping recording: %v", err)
			}
		} else {
			fmt.Println("Exiting application...")
			os.Exit(0)
		}
	}
}

func main() {
	cfg, err := config.Load("recorder.toml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	app := NewApplication(cfg)
	if err := app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
