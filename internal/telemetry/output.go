package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
)

// Output пишет CSV-файлы в каталог запуска. nil-Output ничего не делает,
// так телеметрия выключается пустым путем в конфиге.
type Output struct {
	mu  sync.Mutex
	dir string

	turnsFile *os.File
	actsFile  *os.File

	turnsHeaderWritten bool
	actsHeaderWritten  bool
}

// NewOutput создает каталог и открывает файлы. Пустой dir - nil, nil.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	o := &Output{dir: dir}

	f, err := os.Create(filepath.Join(dir, "turns.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating turns.csv: %w", err)
	}
	o.turnsFile = f

	f, err = os.Create(filepath.Join(dir, "activations.csv"))
	if err != nil {
		o.turnsFile.Close()
		return nil, fmt.Errorf("creating activations.csv: %w", err)
	}
	o.actsFile = f

	return o, nil
}

// WriteTurns дописывает строки статистики ходов.
func (o *Output) WriteTurns(rows []TurnStat) error {
	if o == nil || len(rows) == 0 {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := appendCSV(o.turnsFile, &o.turnsHeaderWritten, rows); err != nil {
		return fmt.Errorf("writing turns: %w", err)
	}
	return nil
}

// WriteActivations дописывает строки журнала активаций. rows - слайс
// структур с csv-тегами.
func (o *Output) WriteActivations(rows any) error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := appendCSV(o.actsFile, &o.actsHeaderWritten, rows); err != nil {
		return fmt.Errorf("writing activations: %w", err)
	}
	return nil
}

// WriteSummary сохраняет сводку в summary.json.
func (o *Output) WriteSummary(s RateSummary) error {
	if o == nil {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(o.dir, "summary.json"), data, 0644); err != nil {
		return fmt.Errorf("writing summary.json: %w", err)
	}
	return nil
}

// Close закрывает файлы.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	var firstErr error
	for _, f := range []*os.File{o.turnsFile, o.actsFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dir возвращает каталог вывода.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

func appendCSV(f *os.File, headerWritten *bool, rows any) error {
	if !*headerWritten {
		if err := gocsv.Marshal(rows, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, f)
}
