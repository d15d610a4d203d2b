// main.go - ChipStream command line player and converter

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/ChipStream
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

func main() {
	outPath := flag.String("out", "", "decode to a WAV file instead of playing")
	track := flag.Int("track", -1, "NSF track to play (default: file's starting song)")
	rate := flag.Int("rate", VGM_SAMPLE_RATE, "output sample rate in Hz")
	volume := flag.Int("volume", DEFAULT_USER_VOLUME, "output volume (0-255)")
	seconds := flag.Int("seconds", 180, "maximum playback length in seconds")
	debug := flag.Bool("debug", false, "verbose engine logging")
	flag.Parse()

	if *debug || chipDebugEnabled() {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [options] <file.vgm|vgz|nsf>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)
	if !isMusicExtension(path) {
		log.Warnf("unrecognised extension on %s, trying anyway", path)
	}

	player := NewChipPlayer()
	player.SetSampleFrequency(uint32(*rate))
	player.SetVolume(uint16(*volume))
	player.SetMaxDuration(uint32(*seconds) * 1000)

	if err := player.Load(path); err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	if *track >= 0 {
		if !player.SetTrack(*track) {
			log.Fatalf("%s: track %d failed to start", path, *track)
		}
	}

	printInfo(player, path)

	if *outPath != "" {
		if err := decodeToWAV(player, *outPath, uint32(*rate)); err != nil {
			log.Fatalf("wav export: %v", err)
		}
		fmt.Printf("Wrote %s\n", *outPath)
		return
	}

	backend, err := NewAudioBackend(*rate)
	if err != nil {
		log.Fatalf("audio device: %v", err)
	}
	defer backend.Close()
	player.AttachBackend(backend)
	player.Play()

	if player.TrackCount() > 1 && term.IsTerminal(int(os.Stdin.Fd())) {
		runTrackKeys(player, backend)
	} else {
		<-backend.Done()
	}
}

func printInfo(player *ChipPlayer, path string) {
	fmt.Printf("Playing %s\n", path)
	if nsf := player.NSFInfo(); nsf != nil {
		if nsf.Name != "" {
			fmt.Printf("  %s - %s (%s)\n", nsf.Name, nsf.Artist, nsf.Copyright)
		}
		fmt.Printf("  track %d/%d\n", player.Track()+1, player.TrackCount())
		return
	}
	if text := player.DurationText(); text != "" {
		fmt.Printf("  length %s\n", text)
	}
}

// decodeToWAV pulls the whole stream and writes it as a WAV file.
func decodeToWAV(player *ChipPlayer, path string, sampleRate uint32) error {
	var pcm []byte
	buf := make([]byte, 16384)
	for {
		n := player.DecodePCM(buf)
		if n == 0 {
			break
		}
		pcm = append(pcm, buf[:n]...)
	}
	return writeWAVFile(path, sampleRate, pcm)
}

// runTrackKeys switches NSF tracks from the keyboard: n/p for next and
// previous, q to quit.
func runTrackKeys(player *ChipPlayer, backend AudioBackend) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		<-backend.Done()
		return
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte)
	go func() {
		b := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(b); err != nil {
				return
			}
			keys <- b[0]
		}
	}()

	fmt.Printf("  keys: n=next, p=previous, q=quit\r\n")
	for {
		select {
		case <-backend.Done():
			return
		case key := <-keys:
			switch key {
			case 'q', 3: // ctrl-c in raw mode
				player.Stop()
				return
			case 'n':
				player.SetTrack(player.Track() + 1)
				fmt.Printf("  track %d/%d\r\n", player.Track()+1, player.TrackCount())
			case 'p':
				player.SetTrack(player.Track() - 1)
				fmt.Printf("  track %d/%d\r\n", player.Track()+1, player.TrackCount())
			}
		}
	}
}
