// Package content holds the text and asset references of the presentation
package content

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

//go:embed script.toml
var defaultScript []byte

// Link is a labelled external reference
type Link struct {
	Label string `toml:"label"`
	Href  string `toml:"href"`
}

// ErrorText is the copy of the crash sequence
type ErrorText struct {
	Banner    string `toml:"banner"`
	Corrupted string `toml:"corrupted"`
	Rebooting string `toml:"rebooting"`
	Dots      string `toml:"dots"`
}

// Contact is the closing contact card
type Contact struct {
	// Header is typed before the links, including its leading blank lines
	Header       string `toml:"header"`
	Separator    string `toml:"separator"`
	Email        Link   `toml:"email"`
	PressRelease Link   `toml:"press_release"`
	Socials      []Link `toml:"socials"`
}

// Script is every piece of content the timeline shows
type Script struct {
	Title         string    `toml:"title"`
	SystemInit    string    `toml:"system_init"`
	BootLog       []string  `toml:"boot_log"`
	Error         ErrorText `toml:"error"`
	Skull         []string  `toml:"skull"`
	Runes         []string  `toml:"runes"`
	RuneLabel     string    `toml:"rune_label"`
	Lore          string    `toml:"lore"`
	Contact       Contact   `toml:"contact"`
	Images        []string  `toml:"images"`
	HiddenMessage string    `toml:"hidden_message"`
}

// Default returns the built-in script
func Default() *Script {
	s, err := Decode(defaultScript)
	if err != nil {
		// Embedded file is part of the build
		panic(err)
	}
	return s
}

// Decode parses a complete script; unknown keys are rejected
func Decode(data []byte) (*Script, error) {
	var s Script
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode script")
	}
	s.normalize()
	return &s, nil
}

// Load reads a script file and layers it over the built-in script
// An empty path returns the built-in script
func Load(path string) (*Script, error) {
	base := Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read script %s", path)
	}
	override, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	base.Merge(override)

	if err := base.Validate(); err != nil {
		return nil, errors.Wrapf(err, "script %s", path)
	}
	return base, nil
}

// Merge copies every non-empty field of o into s
func (s *Script) Merge(o *Script) {
	setString(&s.Title, o.Title)
	setString(&s.SystemInit, o.SystemInit)
	setString(&s.RuneLabel, o.RuneLabel)
	setString(&s.Lore, o.Lore)
	setString(&s.HiddenMessage, o.HiddenMessage)

	setString(&s.Error.Banner, o.Error.Banner)
	setString(&s.Error.Corrupted, o.Error.Corrupted)
	setString(&s.Error.Rebooting, o.Error.Rebooting)
	setString(&s.Error.Dots, o.Error.Dots)

	setString(&s.Contact.Header, o.Contact.Header)
	setString(&s.Contact.Separator, o.Contact.Separator)
	setLink(&s.Contact.Email, o.Contact.Email)
	setLink(&s.Contact.PressRelease, o.Contact.PressRelease)

	setSlice(&s.BootLog, o.BootLog)
	setSlice(&s.Skull, o.Skull)
	setSlice(&s.Runes, o.Runes)
	setSlice(&s.Images, o.Images)
	setSlice(&s.Contact.Socials, o.Contact.Socials)
}

// Validate rejects scripts the final composition cannot be built from
func (s *Script) Validate() error {
	switch {
	case s.Title == "":
		return errors.New("title is empty")
	case s.Lore == "":
		return errors.New("lore is empty")
	case len(s.Images) == 0:
		return errors.New("no images")
	case s.Contact.Email.Href == "" || s.Contact.Email.Label == "":
		return errors.New("contact email is incomplete")
	}
	for i, l := range s.Contact.Socials {
		if l.Label == "" || l.Href == "" {
			return errors.Errorf("contact social %d is incomplete", i)
		}
	}
	return nil
}

// normalize folds every string to NFC so typing splits the same clusters
// regardless of how the source file was encoded
func (s *Script) normalize() {
	n := norm.NFC.String
	s.Title = n(s.Title)
	s.SystemInit = n(s.SystemInit)
	s.RuneLabel = n(s.RuneLabel)
	s.Lore = n(s.Lore)
	s.HiddenMessage = n(s.HiddenMessage)
	s.Error.Banner = n(s.Error.Banner)
	s.Error.Corrupted = n(s.Error.Corrupted)
	s.Error.Rebooting = n(s.Error.Rebooting)
	s.Error.Dots = n(s.Error.Dots)
	s.Contact.Header = n(s.Contact.Header)
	s.Contact.Separator = n(s.Contact.Separator)
	s.Contact.Email.Label = n(s.Contact.Email.Label)
	s.Contact.PressRelease.Label = n(s.Contact.PressRelease.Label)
	for i := range s.Contact.Socials {
		s.Contact.Socials[i].Label = n(s.Contact.Socials[i].Label)
	}
	for _, lines := range [][]string{s.BootLog, s.Skull, s.Runes} {
		for i := range lines {
			lines[i] = n(lines[i])
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setLink(dst *Link, v Link) {
	if v.Label != "" || v.Href != "" {
		*dst = v
	}
}

func setSlice[T any](dst *[]T, v []T) {
	if len(v) > 0 {
		*dst = v
	}
}
