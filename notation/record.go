package notation

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"github.com/nelhage/connectn/connect"
)

// A Record is a game in text form: a block of [Name "Value"] tags
// followed by numbered moves, optional {comments} and a result.
//
//	[Width "7"]
//	[Height "6"]
//	[Connect "4"]
//
//	1. 4 4
//	2. 3 5
//	1-0
type Record struct {
	Tags []Tag
	Ops  []Op
}

type Tag struct {
	Name  string
	Value string
}

type Op interface {
	op()

	Source() string
}

type opCommon struct {
	src string
}

func (o opCommon) Source() string {
	return o.src
}

func (o opCommon) op() {}

type MoveNumber struct {
	opCommon
	Number int
}

type Move struct {
	opCommon
	Column int
}

type Comment struct {
	opCommon
	Comment string
}

type GameOver struct {
	opCommon
	Winner connect.Player
}

func ParseRecord(r io.Reader) (*Record, error) {
	buf := bufio.NewReader(r)
	var rec Record
	if err := readTags(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	if err := readMoves(buf, &rec); err != nil && err != io.EOF {
		return nil, err
	}
	return &rec, nil
}

func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec, err := ParseRecord(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return rec, nil
}

// NewRecord returns a record with the geometry tags for cfg.
func NewRecord(cfg connect.Config) *Record {
	return &Record{
		Tags: []Tag{
			{Name: "Width", Value: strconv.Itoa(cfg.Width)},
			{Name: "Height", Value: strconv.Itoa(cfg.Height)},
			{Name: "Connect", Value: strconv.Itoa(cfg.Connect)},
		},
	}
}

func (r *Record) FindTag(name string) string {
	for _, t := range r.Tags {
		if t.Name == name {
			return t.Value
		}
	}
	return ""
}

func (r *Record) SetTag(name, value string) {
	for i := range r.Tags {
		if r.Tags[i].Name == name {
			r.Tags[i].Value = value
			return
		}
	}
	r.Tags = append(r.Tags, Tag{Name: name, Value: value})
}

func (r *Record) intTag(name string, def int) (int, error) {
	v := r.FindTag(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Errorf("bad %s: %s", name, v)
	}
	return n, nil
}

// Config returns the geometry named by the record's tags. Missing tags
// default to the standard board.
func (r *Record) Config() (connect.Config, error) {
	var cfg connect.Config
	var err error
	if cfg.Width, err = r.intTag("Width", connect.Standard.Width); err != nil {
		return cfg, err
	}
	if cfg.Height, err = r.intTag("Height", connect.Standard.Height); err != nil {
		return cfg, err
	}
	if cfg.Connect, err = r.intTag("Connect", connect.Standard.Connect); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// First is the player making the record's first move.
func (r *Record) First() (connect.Player, error) {
	n, err := r.intTag("First", 0)
	if err != nil {
		return connect.NoPlayer, err
	}
	if n != 0 && n != 1 {
		return connect.NoPlayer, errors.Errorf("bad First: %d", n)
	}
	return connect.Player(n), nil
}

func (r *Record) InitialPosition() (*connect.Position, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	pos := r.FindTag("Position")
	if pos == "" {
		return connect.New(cfg), nil
	}
	p, err := ParsePosition(pos)
	if err != nil {
		return nil, errors.Wrap(err, "bad Position")
	}
	if !p.Config().SameGeometry(&cfg) {
		return nil, errors.Errorf("geometry mismatch: tags %s != Position %s",
			cfg.String(), p.Config().String())
	}
	return p, nil
}

func (r *Record) Moves() []int {
	var out []int
	for _, op := range r.Ops {
		if m, ok := op.(*Move); ok {
			out = append(out, m.Column)
		}
	}
	return out
}

// AddMoves appends moves, numbering each pair.
func (r *Record) AddMoves(ms []int) {
	n := len(r.Moves())
	for _, m := range ms {
		if n%2 == 0 {
			r.Ops = append(r.Ops, &MoveNumber{Number: n/2 + 1})
		}
		r.Ops = append(r.Ops, &Move{Column: m})
		n++
	}
}

func (r *Record) SetResult(winner connect.Player) {
	r.Ops = append(r.Ops, &GameOver{Winner: winner})
	r.SetTag("Result", formatResult(winner))
}

// Replay applies every move to the initial position, alternating
// players from First. It returns the final position and the player
// to move next.
func (r *Record) Replay() (*connect.Position, connect.Player, error) {
	p, err := r.InitialPosition()
	if err != nil {
		return nil, connect.NoPlayer, err
	}
	who, err := r.First()
	if err != nil {
		return nil, connect.NoPlayer, err
	}
	for i, m := range r.Moves() {
		if _, err := p.Drop(who, m); err != nil {
			return nil, connect.NoPlayer, errors.Wrapf(err, "move %d (%s)", i+1, FormatMove(m))
		}
		who = who.Opponent()
	}
	return p, who, nil
}

func readTags(r *bufio.Reader, rec *Record) error {
	for {
		if e := skipWS(r); e != nil {
			return e
		}
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if c != '[' {
			return r.UnreadByte()
		}
		line, e := r.ReadString(']')
		if e != nil {
			return e
		}
		line = line[:len(line)-1]
		bits := strings.SplitN(line, " ", 2)
		if len(bits) != 2 {
			return errors.Errorf("bad tag: %q", line)
		}
		rec.Tags = append(rec.Tags, Tag{
			Name:  bits[0],
			Value: strings.Trim(bits[1], "\""),
		})
	}
}

func readMoves(r *bufio.Reader, rec *Record) error {
	s := bufio.NewScanner(r)
	s.Split(splitMoves)
	for s.Scan() {
		tok := s.Text()
		common := opCommon{tok}
		switch {
		case tok[0] == '{':
			rec.Ops = append(rec.Ops, &Comment{common, tok[1 : len(tok)-1]})
		case tok == "1-0":
			rec.Ops = append(rec.Ops, &GameOver{common, connect.Player0})
		case tok == "0-1":
			rec.Ops = append(rec.Ops, &GameOver{common, connect.Player1})
		case tok == "1/2-1/2":
			rec.Ops = append(rec.Ops, &GameOver{common, connect.NoPlayer})
		case tok[len(tok)-1] == '.':
			n, e := strconv.Atoi(tok[:len(tok)-1])
			if e != nil {
				return errors.Errorf("bad move number: %q", tok)
			}
			rec.Ops = append(rec.Ops, &MoveNumber{common, n})
		default:
			col, e := ParseMove(tok)
			if e != nil {
				return e
			}
			rec.Ops = append(rec.Ops, &Move{common, col})
		}
	}
	return s.Err()
}

func splitMoves(buf []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(buf) && unicode.IsSpace(rune(buf[start])) {
		start++
	}
	if start == len(buf) {
		return start, nil, nil
	}
	if buf[start] == '{' {
		for i := start; i < len(buf); i++ {
			if buf[i] == '}' {
				return i + 1, buf[start : i+1], nil
			}
		}
	} else {
		for i := start; i < len(buf); i++ {
			if unicode.IsSpace(rune(buf[i])) {
				return i + 1, buf[start:i], nil
			}
		}
	}
	if atEOF {
		return len(buf), buf[start:], nil
	}
	return start, nil, nil
}

func skipWS(r *bufio.Reader) error {
	for {
		c, e := r.ReadByte()
		if e != nil {
			return e
		}
		if !unicode.IsSpace(rune(c)) {
			return r.UnreadByte()
		}
	}
}

func formatResult(winner connect.Player) string {
	switch winner {
	case connect.Player0:
		return "1-0"
	case connect.Player1:
		return "0-1"
	default:
		return "1/2-1/2"
	}
}

func (r *Record) Render() string {
	var out bytes.Buffer
	for _, tag := range r.Tags {
		fmt.Fprintf(&out, "[%s \"%s\"]\n",
			tag.Name, strings.Replace(tag.Value, "\"", "", -1),
		)
	}
	out.WriteString("\n")

	for _, op := range r.Ops {
		switch o := op.(type) {
		case *MoveNumber:
			fmt.Fprintf(&out, "\n%d.", o.Number)
		case *Move:
			fmt.Fprintf(&out, " %s", FormatMove(o.Column))
		case *Comment:
			fmt.Fprintf(&out, " {%s}", o.Comment)
		case *GameOver:
			fmt.Fprintf(&out, "\n%s\n", formatResult(o.Winner))
		}
	}
	return out.String()
}
