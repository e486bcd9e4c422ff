package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gyeh/conflicted-ids/internal/attr"
	"github.com/gyeh/conflicted-ids/internal/linkage"
	simdjson "github.com/minio/simdjson-go"
)

var useSimd = simdjson.SupportedCPU()

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	return scanner
}

// ReadPaymentsNDJSON reads one payment record per line. onRecord, if set,
// is called after each record. Invalid records abort the read.
func ReadPaymentsNDJSON(r io.Reader, onRecord func()) ([]linkage.PaymentRecord, error) {
	if useSimd {
		return readPaymentsSimd(r, onRecord)
	}
	return readPaymentsStd(r, onRecord)
}

func readPaymentsStd(r io.Reader, onRecord func()) ([]linkage.PaymentRecord, error) {
	var out []linkage.PaymentRecord
	scanner := newLineScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var w paymentWire
		if err := json.Unmarshal(b, &w); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := w.record()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
		if onRecord != nil {
			onRecord()
		}
	}
	return out, scanner.Err()
}

func readPaymentsSimd(r io.Reader, onRecord func()) ([]linkage.PaymentRecord, error) {
	var out []linkage.PaymentRecord
	var pj *simdjson.ParsedJson
	var err error

	scanner := newLineScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		pj, err = simdjson.Parse(b, pj)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		err = pj.ForEach(func(i simdjson.Iter) error {
			w, err := paymentWireFromIter(i)
			if err != nil {
				return err
			}
			rec, err := w.record()
			if err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if onRecord != nil {
			onRecord()
		}
	}
	return out, scanner.Err()
}

func paymentWireFromIter(i simdjson.Iter) (*paymentWire, error) {
	w := &paymentWire{
		ProfileID:  flexString(iterString(&i, "profile_id")),
		FirstName:  iterString(&i, "first_name"),
		MiddleName: iterString(&i, "middle_name"),
		LastName:   iterString(&i, "last_name"),
	}
	var err error
	if w.NPI, err = iterInt(&i, "npi"); err != nil {
		return nil, err
	}
	year, err := iterInt(&i, "year")
	if err != nil {
		return nil, err
	}
	w.Year = int(year)

	if arr := iterArray(&i, "credentials"); arr != nil {
		if w.Credentials, err = arr.AsString(); err != nil {
			return nil, fmt.Errorf("credentials: %w", err)
		}
	}
	if arr := iterArray(&i, "specialties"); arr != nil {
		arr.ForEach(func(it simdjson.Iter) {
			w.Specialties = append(w.Specialties, attr.SpecialtyPair{
				Specialty:    iterString(&it, "specialty"),
				Subspecialty: iterString(&it, "subspecialty"),
			})
		})
	}
	if arr := iterArray(&i, "citystates"); arr != nil {
		arr.ForEach(func(it simdjson.Iter) {
			w.CityStates = append(w.CityStates, attr.CityState{
				City:  iterString(&it, "city"),
				State: iterString(&it, "state"),
			})
		})
	}
	return w, nil
}

// iterString returns the key's value as a string. Numbers are formatted;
// missing keys and nulls return "".
func iterString(i *simdjson.Iter, key string) string {
	elem, err := i.FindElement(nil, key)
	if err != nil {
		return ""
	}
	switch elem.Type {
	case simdjson.TypeString:
		s, _ := elem.Iter.String()
		return s
	case simdjson.TypeInt, simdjson.TypeUint, simdjson.TypeFloat:
		s, _ := elem.Iter.StringCvt()
		return s
	}
	return ""
}

// iterInt returns the key's integer value, or 0 when missing or null.
func iterInt(i *simdjson.Iter, key string) (int64, error) {
	elem, err := i.FindElement(nil, key)
	if err != nil {
		return 0, nil
	}
	switch elem.Type {
	case simdjson.TypeInt, simdjson.TypeUint, simdjson.TypeFloat:
		n, err := elem.Iter.Int()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", key, err)
		}
		return n, nil
	case simdjson.TypeNull:
		return 0, nil
	}
	return 0, fmt.Errorf("%s: expected a number", key)
}

func iterArray(i *simdjson.Iter, key string) *simdjson.Array {
	elem, err := i.FindElement(nil, key)
	if err != nil || elem.Type != simdjson.TypeArray {
		return nil
	}
	arr, err := elem.Iter.Array(nil)
	if err != nil {
		return nil
	}
	return arr
}
