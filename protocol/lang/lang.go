// Package lang is the registry of languages txsc reads and writes.
//
// A language may be a source, a target or both. Sources produce
// either a structural tree, which goes through the whole pipeline,
// or linear instructions, which only get the peephole optimizer.
// Targets render an instruction container.
//
// The registry is static: every language is registered in this
// package's init and selected by name.
package lang

import (
	"encoding/hex"
	"sort"
	"strings"

	"github.com/Kefkius/txsc/errors"
	"github.com/Kefkius/txsc/protocol/linear"
	"github.com/Kefkius/txsc/protocol/structural"
)

var (
	ErrNotSource       = errors.New("language cannot be compiled from")
	ErrNotTarget       = errors.New("language cannot be compiled to")
	ErrUnknownLanguage = errors.New("unknown language")
)

// Program is a parsed source. Exactly one of Tree and Instrs is set.
type Program struct {
	Tree   *structural.Tree
	Root   structural.NodeID
	Instrs []linear.Instruction
}

// Source parses program text.
type Source interface {
	Parse(src []byte) (*Program, error)
}

// Target renders a compiled program.
type Target interface {
	Emit(c *linear.Container) ([]byte, error)
}

// Language is a named pair of capabilities. Either may be nil.
type Language struct {
	Name        string
	Description string
	Source      Source
	Target      Target
}

var registry = make(map[string]*Language)

// Register adds l to the registry. It panics if the name is taken.
func Register(l *Language) {
	name := strings.ToLower(l.Name)
	if _, ok := registry[name]; ok {
		panic("lang: duplicate language " + l.Name)
	}
	registry[name] = l
}

// Lookup returns the language with the given name.
func Lookup(name string) (*Language, error) {
	l, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.WithDetailf(ErrUnknownLanguage, "%q (have %s)", name, strings.Join(Names(), ", "))
	}
	return l, nil
}

// LookupSource returns the named language if it can be compiled from.
func LookupSource(name string) (Source, error) {
	l, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if l.Source == nil {
		return nil, errors.WithDetail(ErrNotSource, l.Name)
	}
	return l.Source, nil
}

// LookupTarget returns the named language if it can be compiled to.
func LookupTarget(name string) (Target, error) {
	l, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if l.Target == nil {
		return nil, errors.WithDetail(ErrNotTarget, l.Name)
	}
	return l.Target, nil
}

// Names returns the registered language names in sorted order.
func Names() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type asm struct{}

func (asm) Parse(src []byte) (*Program, error) {
	instrs, err := linear.ParseAsm(string(src))
	if err != nil {
		return nil, err
	}
	return &Program{Instrs: instrs}, nil
}

func (asm) Emit(c *linear.Container) ([]byte, error) {
	return []byte(c.String()), nil
}

type raw struct{}

func (raw) Parse(src []byte) (*Program, error) {
	instrs, err := linear.Decode(src)
	if err != nil {
		return nil, err
	}
	return &Program{Instrs: instrs}, nil
}

func (raw) Emit(c *linear.Container) ([]byte, error) {
	return c.Bytes(), nil
}

type hexRaw struct{}

func (hexRaw) Parse(src []byte) (*Program, error) {
	b, err := hex.DecodeString(strings.Join(strings.Fields(string(src)), ""))
	if err != nil {
		return nil, errors.Wrap(err, "decoding hex")
	}
	return raw{}.Parse(b)
}

func (hexRaw) Emit(c *linear.Container) ([]byte, error) {
	return []byte(hex.EncodeToString(c.Bytes())), nil
}

type sir struct{}

func (sir) Parse(src []byte) (*Program, error) {
	t, root, err := structural.Decode(src)
	if err != nil {
		return nil, err
	}
	return &Program{Tree: t, Root: root}, nil
}

func init() {
	Register(&Language{Name: "asm", Description: "script assembly text", Source: asm{}, Target: asm{}})
	Register(&Language{Name: "btc", Description: "raw script bytes", Source: raw{}, Target: raw{}})
	Register(&Language{Name: "hex", Description: "hex-encoded script bytes", Source: hexRaw{}, Target: hexRaw{}})
	Register(&Language{Name: "sir", Description: "structural IR as JSON", Source: sir{}})
}
