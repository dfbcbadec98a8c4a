// Package storage сохраняет записи партий в компактном бинарном формате.
package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dungeon-core/internal/domain"
	"dungeon-core/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `DCRP` // 4 байта
	Version1    uint32 = 1
	Extension          = ".dcrp"
)

// ReplayFileHeader - точное представление заголовка файла в памяти.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type ReplayFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	Depth       int32   // 4 байта
	ActionCount int32   // 4 байта
}

// ActionHeader - заголовок каждой записи действия.
type ActionHeader struct {
	Turn       int64  // 8
	ActionType uint8  // 1
	TokenLen   uint8  // 1
	PayloadLen uint16 // 2
}

type ReplayService struct {
	SaveDir string

	log *logrus.Entry
}

func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating replay directory: %w", err)
	}
	return &ReplayService{SaveDir: dir, log: logger.For("replay_storage")}, nil
}

// Save пишет запись в новый файл и возвращает его путь.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_d%d_%d%s", session.Seed, session.Depth, session.Timestamp, Extension)
	path := filepath.Join(s.SaveDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, session); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"path":    path,
		"seed":    session.Seed,
		"actions": len(session.Actions),
	}).Info("Replay saved")
	return path, nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	// 1. Глобальный заголовок
	header := ReplayFileHeader{
		Version:     Version1,
		Seed:        s.Seed,
		Timestamp:   s.Timestamp,
		Depth:       int32(s.Depth),
		ActionCount: int32(len(s.Actions)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Действия: заголовок фиксированной длины, затем токен и payload
	for _, act := range s.Actions {
		tokenBytes := []byte(act.Token)
		if len(tokenBytes) > 255 {
			return fmt.Errorf("token too long: %d", len(tokenBytes))
		}
		payloadLen := len(act.Payload)
		if payloadLen > 65535 {
			return fmt.Errorf("payload too long: %d", payloadLen)
		}

		actHeader := ActionHeader{
			Turn:       act.Turn,
			ActionType: uint8(act.Action),
			TokenLen:   uint8(len(tokenBytes)),
			PayloadLen: uint16(payloadLen),
		}
		if err := binary.Write(w, binary.LittleEndian, &actHeader); err != nil {
			return err
		}
		if _, err := w.Write(tokenBytes); err != nil {
			return err
		}
		if payloadLen > 0 {
			if _, err := w.Write(act.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}
