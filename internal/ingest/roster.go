package ingest

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gyeh/conflicted-ids/internal/linkage"
)

// ReadRoster reads conflicted people from a JSON array or from NDJSON.
// onPerson, if set, is called with the count read so far.
func ReadRoster(r io.Reader, onPerson func(int)) ([]linkage.ConflictedPerson, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading roster: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		var out []linkage.ConflictedPerson
		err := streamArray(dec, func() error {
			p, err := decodePerson(dec)
			if err != nil {
				return err
			}
			out = append(out, p)
			if onPerson != nil {
				onPerson(len(out))
			}
			return nil
		})
		return out, err
	}

	var out []linkage.ConflictedPerson
	for {
		p, err := decodePerson(dec)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("roster record %d: %w", len(out)+1, err)
		}
		out = append(out, p)
		if onPerson != nil {
			onPerson(len(out))
		}
	}
}

func decodePerson(dec *json.Decoder) (linkage.ConflictedPerson, error) {
	var w personWire
	if err := dec.Decode(&w); err != nil {
		return linkage.ConflictedPerson{}, err
	}
	return w.person()
}

func decodePayment(dec *json.Decoder) (linkage.PaymentRecord, error) {
	var w paymentWire
	if err := dec.Decode(&w); err != nil {
		return linkage.PaymentRecord{}, err
	}
	return w.record()
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, br.UnreadByte()
	}
}

// streamArray consumes a JSON array from dec, calling each once per element
// with the decoder positioned at the element.
func streamArray(dec *json.Decoder, each func() error) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading array start: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("expected '[', got %v", tok)
	}
	for n := 1; dec.More(); n++ {
		if err := each(); err != nil {
			return fmt.Errorf("element %d: %w", n, err)
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading array end: %w", err)
	}
	return nil
}

// Bundle is a single JSON document carrying both inputs:
// {"conflicteds": [...], "payments": [...]}. Other keys are ignored.
type Bundle struct {
	Roster   []linkage.ConflictedPerson
	Payments []linkage.PaymentRecord
}

// ReadBundle streams a bundle document without holding the raw JSON in memory.
func ReadBundle(r io.Reader) (*Bundle, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected '{', got %v", tok)
	}

	b := &Bundle{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", tok)
		}

		switch key {
		case bundleRosterKey:
			err = streamArray(dec, func() error {
				p, err := decodePerson(dec)
				if err == nil {
					b.Roster = append(b.Roster, p)
				}
				return err
			})
		case bundlePaymentsKey:
			err = streamArray(dec, func() error {
				p, err := decodePayment(dec)
				if err == nil {
					b.Payments = append(b.Payments, p)
				}
				return err
			})
		default:
			err = skipValue(dec)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return b, nil
}

// skipValue consumes the next JSON value token by token, so large unused
// sections are never buffered.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || (delim != '{' && delim != '[') {
		return nil
	}
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		if err := skipValue(dec); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
