package cmn

import (
	"fmt"
	"io"
	"os"
)

const (
	MediumMark        string = "✓"
	MediumX           string = "✕"
	MediumBulletPoint string = "•"
)

/*
	Printer is the console output of dp.
	With Raw set no escape sequences nor glyphs are written,
	which is what you want when piping output to a file.
*/
type Printer struct {
	Out io.Writer
	Err io.Writer
	Raw bool
}

func NewPrinter(raw bool) *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr, Raw: raw}
}

func (p *Printer) line(w io.Writer, flag AnsiFlag, glyph, prefix, _fmt string, argv ...interface{}) {
	text := fmt.Sprintf(_fmt, argv...)
	if p.Raw {
		fmt.Fprintf(w, "%s%s\n", prefix, text)
		return
	}
	fmt.Fprintf(w, "%s%v%s%v %s\n", prefix, flag, glyph, AttrOff, text)
}

func (p *Printer) Successf(prefix, _fmt string, argv ...interface{}) {
	p.line(p.Err, ForeGreen, MediumMark, prefix, _fmt, argv...)
}

func (p *Printer) Warnf(prefix, _fmt string, argv ...interface{}) {
	p.line(p.Err, ForeYellow, MediumX, prefix, _fmt, argv...)
}

func (p *Printer) Notifyf(prefix, _fmt string, argv ...interface{}) {
	p.line(p.Out, ForeBlue, MediumBulletPoint, prefix, _fmt, argv...)
}

// Println writes text as is, used for the statements themselves.
func (p *Printer) Println(text string) {
	fmt.Fprintln(p.Out, text)
}

func (p *Printer) Error(err error) {
	if p.Raw {
		fmt.Fprintf(p.Err, "%s\n", err)
		return
	}
	fmt.Fprintf(p.Err, "%v%s%v\n", ForeRed, err, AttrOff)
}
