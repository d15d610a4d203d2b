// wav_writer.go - RIFF/WAVE export for decoded PCM.

package main

import (
	"encoding/binary"
	"io"
	"os"
)

// writeWAV emits a 16-bit stereo RIFF/WAVE stream for pcm at the given
// sample rate.
func writeWAV(w io.Writer, sampleRate uint32, pcm []byte) error {
	const (
		channels      = 2
		bitsPerSample = 16
	)
	blockAlign := uint16(channels * bitsPerSample / 8)
	byteRate := sampleRate * uint32(blockAlign)

	var header [44]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:], 16)
	binary.LittleEndian.PutUint16(header[20:], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:], channels)
	binary.LittleEndian.PutUint32(header[24:], sampleRate)
	binary.LittleEndian.PutUint32(header[28:], byteRate)
	binary.LittleEndian.PutUint16(header[32:], blockAlign)
	binary.LittleEndian.PutUint16(header[34:], bitsPerSample)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:], uint32(len(pcm)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

// writeWAVFile writes pcm to path as a WAV file.
func writeWAVFile(path string, sampleRate uint32, pcm []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeWAV(f, sampleRate, pcm)
}
