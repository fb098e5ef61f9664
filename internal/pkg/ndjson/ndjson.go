// Package ndjson потоковая выдача ответа чата строками JSON и их обратная свёртка
package ndjson

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/admin/astro-match/internal/domain"
)

const ContentType = "application/x-ndjson"

const maxLineSize = 1 << 20

// Writer пишет по одному JSON-объекту на строку и сразу сбрасывает буфер клиенту
type Writer struct {
	enc     *json.Encoder
	flusher http.Flusher
}

func NewWriter(w io.Writer) *Writer {
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc, flusher: flusher}
}

func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write ndjson line: %w", err)
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}

// Accumulator свёртка фрагментов: fullResponse заменяет накопленное, delta дописывает,
// response или done завершают, error прерывает
type Accumulator struct {
	text strings.Builder
	done bool
}

// Feed возвращает true, когда пришёл завершающий фрагмент
func (a *Accumulator) Feed(fragment domain.ChatFragment) (bool, error) {
	if a.done {
		return true, nil
	}
	if fragment.Error != "" {
		return false, errors.New(fragment.Error)
	}

	if fragment.Response != "" || fragment.Done {
		switch {
		case fragment.Response != "":
			a.replace(fragment.Response)
		case fragment.FullResponse != "":
			a.replace(fragment.FullResponse)
		}
		a.done = true
		return true, nil
	}

	switch {
	case fragment.FullResponse != "":
		a.replace(fragment.FullResponse)
	case fragment.Delta != "":
		a.text.WriteString(fragment.Delta)
	}
	return false, nil
}

func (a *Accumulator) Text() string {
	return a.text.String()
}

func (a *Accumulator) Done() bool {
	return a.done
}

func (a *Accumulator) replace(s string) {
	a.text.Reset()
	a.text.WriteString(s)
}

// Accumulate читает поток до завершающего фрагмента или EOF. Нечитаемые строки пропускаются
func Accumulate(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var acc Accumulator
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var fragment domain.ChatFragment
		if err := json.Unmarshal([]byte(line), &fragment); err != nil {
			continue
		}

		done, err := acc.Feed(fragment)
		if err != nil {
			return acc.Text(), err
		}
		if done {
			return acc.Text(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return acc.Text(), fmt.Errorf("failed to read ndjson stream: %w", err)
	}
	return acc.Text(), nil
}
