package opus

import "fmt"

// SampleRate is the rate granule positions and pre-skip are counted in.
const SampleRate = 48000

// FrameCount is the number of frames in a packet, from its TOC byte and, for
// code 3 packets, the frame count byte after it. packet only needs to hold
// the first two bytes.
//
// https://www.rfc-editor.org/rfc/rfc6716#section-3.2
func FrameCount(packet []byte) (int, error) {
	if len(packet) < 1 {
		return 0, fmt.Errorf("empty packet: %w", ErrInvalidPacket)
	}
	switch packet[0] & 0x3 {
	case 0:
		return 1, nil
	case 1, 2:
		return 2, nil
	}
	if len(packet) < 2 {
		return 0, fmt.Errorf("code 3 packet without frame count: %w", ErrInvalidPacket)
	}
	return int(packet[1] & 0x3f), nil
}

// SamplesPerFrame is the frame size of a packet at sampleRate, from its TOC
// byte.
func SamplesPerFrame(toc byte, sampleRate int) int {
	switch {
	case toc&0x80 != 0:
		// CELT only, 2.5/5/10/20 ms
		shift := (toc >> 3) & 0x3
		return (sampleRate << shift) / 400
	case toc&0x60 == 0x60:
		// hybrid, 10/20 ms
		if toc&0x08 != 0 {
			return sampleRate / 50
		}
		return sampleRate / 100
	default:
		// SILK only, 10/20/40/60 ms
		shift := (toc >> 3) & 0x3
		if shift == 3 {
			return sampleRate * 60 / 1000
		}
		return (sampleRate << shift) / 100
	}
}

// PacketSamples is the number of 48 kHz samples a packet decodes to.
func PacketSamples(packet []byte) (int, error) {
	frames, err := FrameCount(packet)
	if err != nil {
		return 0, err
	}
	return frames * SamplesPerFrame(packet[0], SampleRate), nil
}
