package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/cleartone/patchsynth/internal/bridge"
	"github.com/cleartone/patchsynth/internal/component"
	"github.com/cleartone/patchsynth/internal/hostaudio"
	"github.com/cleartone/patchsynth/internal/midi"
	"github.com/cleartone/patchsynth/internal/patch"
	"github.com/cleartone/patchsynth/internal/soundscape"
)

// demoScript is a small, fixed arpeggio used by -demo: raw MIDI bytes
// queued for the audio worker to decode and dispatch itself, the same as a
// real host's event buffer, rather than a shortcut that mutates the
// soundscape from this goroutine.
var demoScript = []struct {
	wait  time.Duration
	event [3]byte
}{
	{0, [3]byte{0x90, 69, 100}},                    // note-on A4
	{300 * time.Millisecond, [3]byte{0xB0, 7, 100}}, // CC 7
	{300 * time.Millisecond, [3]byte{0x80, 69, 0}},  // note-off A4
	{100 * time.Millisecond, [3]byte{0x90, 72, 100}},
	{400 * time.Millisecond, [3]byte{0x90, 72, 0}}, // zero-velocity note-on == note-off
}

func main() {
	var (
		patchPath  = pflag.StringP("patch", "p", "", "path to a patch YAML file")
		sampleRate = pflag.IntP("sample-rate", "r", 44100, "output sample rate in Hz")
		polyphony  = pflag.IntP("polyphony", "n", 8, "number of voices in the soundscape")
		demo       = pflag.Bool("demo", false, "drive the soundscape with a scripted note sequence instead of a real MIDI source")
	)
	pflag.Parse()

	if *patchPath == "" && pflag.NArg() > 0 {
		*patchPath = pflag.Arg(0)
	}
	if *patchPath == "" {
		log.Error("no patch given", "usage", "synth --patch <path> [--demo] [--sample-rate N] [--polyphony N]")
		os.Exit(1)
	}

	if err := run(*patchPath, *sampleRate, *polyphony, *demo); err != nil {
		log.Error("synth exited with error", "err", err)
		os.Exit(1)
	}
}

func run(patchPath string, sampleRate, polyphony int, demo bool) error {
	f, err := os.Open(patchPath)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := patch.Load(f)
	if err != nil {
		return err
	}
	log.Info("patch loaded", "path", patchPath, "components", len(p.Components))

	scape, err := soundscape.New(polyphony, p.NewVoice)
	if err != nil {
		return err
	}
	log.Info("soundscape built", "polyphony", polyphony, "sample_rate", sampleRate)

	// Both queues are control-bridge seams: this goroutine (and, with -demo,
	// runDemo) only ever pushes. Only the audio worker inside
	// hostaudio.SoundscapeSource.Process pops, at the top of each block, so
	// the soundscape's port registries are touched from exactly one
	// goroutine.
	props := bridge.NewQueue[component.AudioProperty]()
	events := bridge.NewQueue[midi.RawEvent]()
	props.Push(component.AudioProperty{SampleRate: float32(sampleRate)})

	player, err := hostaudio.NewPlayer(sampleRate, hostaudio.NewSoundscapeSource(scape, props, events))
	if err != nil {
		return err
	}
	player.Play()
	defer player.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	if demo {
		go runDemo(events)
	}

	<-sig
	log.Info("shutting down")
	return nil
}

// runDemo pushes demoScript's raw event bytes onto the control bridge on a
// schedule; the audio worker decodes and applies each one itself.
func runDemo(events *bridge.Queue[midi.RawEvent]) {
	for _, step := range demoScript {
		if step.wait > 0 {
			time.Sleep(step.wait)
		}
		events.Push(midi.RawEvent{Data: step.event, Len: 3})
	}
}
