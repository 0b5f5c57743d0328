package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hablalab/fonema/domain/entities"
)

// DecodeWAV parses a RIFF/WAVE byte buffer and returns the raw 16-bit PCM
// data along with its sample rate and channel count. Only PCM format 1 with
// 16 bits per sample is supported; that is the only format the normalizer
// ever produces.
func DecodeWAV(data []byte) (pcm []byte, sampleRate, channels int, err error) {
	r := bytes.NewReader(data)

	var riffID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &riffID); err != nil {
		return nil, 0, 0, fmt.Errorf("read RIFF ID: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return nil, 0, 0, errors.New("not a RIFF file")
	}

	var fileSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return nil, 0, 0, fmt.Errorf("read file size: %w", err)
	}

	var waveID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &waveID); err != nil {
		return nil, 0, 0, fmt.Errorf("read WAVE ID: %w", err)
	}
	if string(waveID[:]) != "WAVE" {
		return nil, 0, 0, errors.New("not a WAVE file")
	}

	var fmtFound, dataFound bool

	for {
		var chunkID [4]byte
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, 0, 0, fmt.Errorf("read chunk ID: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, 0, 0, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			var audioFormat, numChannels uint16
			var rate, byteRate uint32
			var blockAlign, bitsPerSample uint16

			if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
				return nil, 0, 0, fmt.Errorf("read audio format: %w", err)
			}
			if audioFormat != 1 {
				return nil, 0, 0, fmt.Errorf("unsupported audio format %d (only PCM=1 supported)", audioFormat)
			}
			if err := binary.Read(r, binary.LittleEndian, &numChannels); err != nil {
				return nil, 0, 0, fmt.Errorf("read num channels: %w", err)
			}
			if err := binary.Read(r, binary.LittleEndian, &rate); err != nil {
				return nil, 0, 0, fmt.Errorf("read sample rate: %w", err)
			}
			if err := binary.Read(r, binary.LittleEndian, &byteRate); err != nil {
				return nil, 0, 0, fmt.Errorf("read byte rate: %w", err)
			}
			if err := binary.Read(r, binary.LittleEndian, &blockAlign); err != nil {
				return nil, 0, 0, fmt.Errorf("read block align: %w", err)
			}
			if err := binary.Read(r, binary.LittleEndian, &bitsPerSample); err != nil {
				return nil, 0, 0, fmt.Errorf("read bits per sample: %w", err)
			}
			if bitsPerSample != 16 {
				return nil, 0, 0, fmt.Errorf("unsupported bits per sample %d (only 16 supported)", bitsPerSample)
			}

			sampleRate = int(rate)
			channels = int(numChannels)

			// Skip any extra fmt bytes.
			if chunkSize > 16 {
				if _, err := r.Seek(int64(chunkSize-16), io.SeekCurrent); err != nil {
					return nil, 0, 0, fmt.Errorf("skip extra fmt bytes: %w", err)
				}
			}
			fmtFound = true

		case "data":
			if !fmtFound {
				return nil, 0, 0, errors.New("data chunk before fmt chunk")
			}
			pcm = make([]byte, chunkSize)
			if _, err := io.ReadFull(r, pcm); err != nil {
				return nil, 0, 0, fmt.Errorf("read PCM data: %w", err)
			}
			dataFound = true

		default:
			// Skip unknown chunks; align to even boundary.
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return nil, 0, 0, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}

		if fmtFound && dataFound {
			break
		}
	}

	if !fmtFound {
		return nil, 0, 0, errors.New("missing fmt chunk")
	}
	if !dataFound {
		return nil, 0, 0, errors.New("missing data chunk")
	}

	return pcm, sampleRate, channels, nil
}

// EncodeWAV wraps canonical audio in a RIFF/WAVE container.
func EncodeWAV(a entities.CanonicalAudio) []byte {
	var buf bytes.Buffer

	byteRate := a.SampleRate * a.Channels * a.SampleSize
	blockAlign := a.Channels * a.SampleSize
	dataSize := len(a.PCM)

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(a.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(a.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(a.SampleSize*8))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(a.PCM)

	return buf.Bytes()
}

// WriteWAVFile writes canonical audio to path as a RIFF/WAVE file.
func WriteWAVFile(path string, a entities.CanonicalAudio) error {
	return os.WriteFile(path, EncodeWAV(a), 0o644)
}
