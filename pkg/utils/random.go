package utils

import (
	crand "crypto/rand"
	"encoding/hex"
	"hash/fnv"
	"math/rand/v2"
)

// RNG - минимальный интерфейс генератора, который нужен симуляции.
// Детерминизм прогонов обеспечивается тем, что весь код ядра берёт
// случайность только отсюда.
type RNG interface {
	// Int0 возвращает число из [0, n). Для n <= 0 возвращает 0.
	Int0(n int) int
	// Int1 возвращает число из [1, n]. Для n <= 0 возвращает 0.
	Int1(n int) int
	// OneIn возвращает true с вероятностью 1/n.
	OneIn(n int) bool
}

// Rand - сидируемая реализация RNG поверх PCG.
type Rand struct {
	r *rand.Rand
}

// NewRand создает генератор с фиксированным сидом.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))}
}

func (r *Rand) Int0(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

func (r *Rand) Int1(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n) + 1
}

func (r *Rand) OneIn(n int) bool {
	if n <= 1 {
		return true
	}
	return r.r.IntN(n) == 0
}

// StringToSeed превращает строку (имя игрока, имя прогона) в сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := crand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}
