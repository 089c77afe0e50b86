package ivxv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Path locates a ballot inside an anonymous ballot box.
type Path struct {
	District string
	Station  string
	Question string
	Index    int
}

func (p Path) String() string {
	return fmt.Sprintf("%s/%s/%s[%d]", p.District, p.Station, p.Question, p.Index)
}

type Question struct {
	ID      string
	Ballots [][]byte
}

type Station struct {
	ID        string
	Questions []*Question

	index map[string]*Question
}

type District struct {
	ID       string
	Stations []*Station

	index map[string]*Station
}

// AnonymousBallotBox holds the encrypted ballots of one election grouped by
// district, polling station and question. Every level keeps the insertion
// order of its keys, which is also the order of the JSON serialization.
type AnonymousBallotBox struct {
	Election  string
	Districts []*District

	index map[string]*District
}

func NewAnonymousBallotBox(election string) *AnonymousBallotBox {
	return &AnonymousBallotBox{
		Election: election,
		index:    make(map[string]*District),
	}
}

func (b *AnonymousBallotBox) district(id string) *District {
	if b.index == nil {
		b.index = make(map[string]*District)
	}
	d, ok := b.index[id]
	if !ok {
		d = &District{ID: id, index: make(map[string]*Station)}
		b.index[id] = d
		b.Districts = append(b.Districts, d)
	}
	return d
}

func (d *District) station(id string) *Station {
	if d.index == nil {
		d.index = make(map[string]*Station)
	}
	s, ok := d.index[id]
	if !ok {
		s = &Station{ID: id, index: make(map[string]*Question)}
		d.index[id] = s
		d.Stations = append(d.Stations, s)
	}
	return s
}

func (s *Station) question(id string) *Question {
	if s.index == nil {
		s.index = make(map[string]*Question)
	}
	q, ok := s.index[id]
	if !ok {
		q = &Question{ID: id}
		s.index[id] = q
		s.Questions = append(s.Questions, q)
	}
	return q
}

// Add appends a ballot to the given district, station and question, creating
// the intermediate levels on first use.
func (b *AnonymousBallotBox) Add(district, station, question string, ballot []byte) {
	q := b.district(district).station(station).question(question)
	q.Ballots = append(q.Ballots, ballot)
}

// Len returns the number of ballots in the box.
func (b *AnonymousBallotBox) Len() int {
	n := 0
	for _, d := range b.Districts {
		for _, s := range d.Stations {
			for _, q := range s.Questions {
				n += len(q.Ballots)
			}
		}
	}
	return n
}

// Walk calls fn for every ballot, depth first in insertion order. Walking
// stops at the first error, which is returned.
func (b *AnonymousBallotBox) Walk(fn func(path Path, ballot []byte) error) error {
	for _, d := range b.Districts {
		for _, s := range d.Stations {
			for _, q := range s.Questions {
				for i, ballot := range q.Ballots {
					if err := fn(Path{d.ID, s.ID, q.ID, i}, ballot); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// ReadBallotBoxFile parses the ballot box stored at path.
func ReadBallotBoxFile(path string) (*AnonymousBallotBox, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &BallotBoxFormatError{Err: err}
	}
	return ParseBallotBox(data)
}

// WriteFile serializes the box to path.
func (b *AnonymousBallotBox) WriteFile(path string) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ParseBallotBox parses the JSON serialization of a ballot box.
func ParseBallotBox(data []byte) (*AnonymousBallotBox, error) {
	b := new(AnonymousBallotBox)
	if err := b.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *AnonymousBallotBox) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeKey := func(i int, key string) {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
	}

	buf.WriteString(`{"election":`)
	e, err := json.Marshal(b.Election)
	if err != nil {
		return nil, err
	}
	buf.Write(e)
	buf.WriteString(`,"districts":{`)
	for i, d := range b.Districts {
		writeKey(i, d.ID)
		buf.WriteByte('{')
		for j, s := range d.Stations {
			writeKey(j, s.ID)
			buf.WriteByte('{')
			for k, q := range s.Questions {
				writeKey(k, q.ID)
				ballots := q.Ballots
				if ballots == nil {
					ballots = [][]byte{}
				}
				// []byte values are encoded as base64 strings.
				bs, err := json.Marshal(ballots)
				if err != nil {
					return nil, err
				}
				buf.Write(bs)
			}
			buf.WriteByte('}')
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func (b *AnonymousBallotBox) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	box := NewAnonymousBallotBox("")
	var haveElection, haveDistricts bool

	err := readObject(dec, func(key string) error {
		switch key {
		case "election":
			var election *string
			if err := dec.Decode(&election); err != nil {
				return fmt.Errorf("election: %w", err)
			}
			if election == nil {
				return errors.New("election: null")
			}
			box.Election = *election
			haveElection = true
		case "districts":
			haveDistricts = true
			return readObject(dec, func(did string) error {
				d := box.district(did)
				return readObject(dec, func(sid string) error {
					s := d.station(sid)
					return readObject(dec, func(qid string) error {
						q := s.question(qid)
						if err := dec.Decode(&q.Ballots); err != nil {
							return fmt.Errorf("%s/%s/%s: %w", did, sid, qid, err)
						}
						for i, ballot := range q.Ballots {
							if ballot == nil {
								return fmt.Errorf("%s/%s/%s[%d]: null ballot", did, sid, qid, i)
							}
						}
						return nil
					})
				})
			})
		default:
			var skip json.RawMessage
			return dec.Decode(&skip)
		}
		return nil
	})
	if err != nil {
		return &BallotBoxFormatError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return &BallotBoxFormatError{Err: errors.New("trailing data")}
	}
	if !haveElection || !haveDistricts {
		return &BallotBoxFormatError{Err: errors.New("missing election or districts")}
	}
	*b = *box
	return nil
}

// readObject consumes a JSON object, calling fn for every key with the decoder
// positioned at the corresponding value. Duplicate keys are rejected.
func readObject(dec *json.Decoder, fn func(key string) error) error {
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	seen := make(map[string]struct{})
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate key %q", key)
		}
		seen[key] = struct{}{}
		if err := fn(key); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %v, got %v", want, tok)
	}
	return nil
}
