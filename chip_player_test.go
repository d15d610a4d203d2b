// chip_player_test.go - Facade auto-detection and settings tests.

package main

import "testing"

func TestChipPlayerOpenVGM(t *testing.T) {
	player := NewChipPlayer()
	data := buildVGM(t, []byte{0x62, 0x66}, vgmOptions{ayClock: PSG_CLOCK_MSX})
	if !player.Open(data) {
		t.Fatalf("valid vgm rejected")
	}
	if player.TrackCount() != 1 {
		t.Errorf("vgm track count = %d, want 1", player.TrackCount())
	}
	if !player.SetTrack(0) {
		t.Errorf("vgm SetTrack(0) should be a true no-op")
	}
}

func TestChipPlayerOpenVGZ(t *testing.T) {
	player := NewChipPlayer()
	data := gzipBytes(t, buildVGM(t, []byte{0x62, 0x66}, vgmOptions{ayClock: PSG_CLOCK_MSX}))
	if !player.Open(data) {
		t.Fatalf("gzip'd vgm rejected")
	}
	pcm := decodeAll(player, 4096)
	if len(pcm) != 735*4 {
		t.Errorf("decoded %d bytes, want %d", len(pcm), 735*4)
	}
}

func TestChipPlayerOpenNSF(t *testing.T) {
	player := NewChipPlayer()
	rom := make([]byte, 0x10)
	rom[0x00] = 0x60 // init
	rom[0x01] = 0x60 // play
	data := buildNSF(t, rom, 0x8000, 0x8000, 0x8001, nsfOptions{songs: 4})
	if !player.Open(data) {
		t.Fatalf("valid nsf rejected")
	}
	if player.TrackCount() != 4 {
		t.Errorf("track count = %d, want 4", player.TrackCount())
	}
	if info := player.NSFInfo(); info == nil || info.Name != "test tune" {
		t.Errorf("nsf metadata missing")
	}
}

func TestChipPlayerRejectsGarbage(t *testing.T) {
	player := NewChipPlayer()
	if player.Open([]byte("this is not a chiptune image at all")) {
		t.Errorf("garbage accepted")
	}
	if player.Open(nil) {
		t.Errorf("empty input accepted")
	}
	if err := player.LoadData([]byte{1, 2, 3}); err == nil {
		t.Errorf("LoadData accepted garbage")
	}
}

func TestChipPlayerDecodeWithoutOpen(t *testing.T) {
	player := NewChipPlayer()
	if n := player.DecodePCM(make([]byte, 64)); n != 0 {
		t.Errorf("decoded %d bytes with nothing open", n)
	}
}

func TestChipPlayerSilentStream(t *testing.T) {
	// A wait-only stream with no declared chips decodes to nothing.
	player := NewChipPlayer()
	data := buildVGM(t, []byte{0x62, 0x66}, vgmOptions{})
	if !player.Open(data) {
		t.Fatalf("chipless vgm rejected")
	}
	if n := player.DecodePCM(make([]byte, 4096)); n != 0 {
		t.Errorf("decoded %d bytes from a chipless stream, want 0", n)
	}
}

func TestChipPlayerSettingsSurviveOpen(t *testing.T) {
	player := NewChipPlayer()
	player.SetSampleFrequency(22050)
	player.SetMaxDuration(1000)

	data := buildVGM(t, []byte{0x61, 0x34, 0x12, 0x66}, vgmOptions{ayClock: PSG_CLOCK_MSX})
	if !player.Open(data) {
		t.Fatalf("open failed")
	}
	// 0x1234+1 = 4661 chip samples at half rate round down to 2330
	// output frames.
	pcm := decodeAll(player, 4096)
	if len(pcm) != 2330*4 {
		t.Errorf("decoded %d bytes at 22050 Hz, want %d", len(pcm), 2330*4)
	}
}

func TestChipPlayerDurationText(t *testing.T) {
	player := NewChipPlayer()
	data := buildVGM(t, []byte{0x66}, vgmOptions{ayClock: PSG_CLOCK_MSX, totalSamples: 2 * 60 * VGM_SAMPLE_RATE})
	if !player.Open(data) {
		t.Fatalf("open failed")
	}
	if text := player.DurationText(); text != "2:00" {
		t.Errorf("duration text = %q, want \"2:00\"", text)
	}
}
