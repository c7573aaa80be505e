package cmn

import (
	"strconv"
	"strings"
)

/*
	ANSI SGR sequences.

	fmt.Printf("%vHello World%v\n", cmn.ForeRed|cmn.AttrBold, cmn.AttrOff)

	A flag packs up to three codes, one per byte: [0 | back | fore | attr].
*/
type AnsiFlag uint32

const (
	AttrOff AnsiFlag = iota
	AttrBold
	_
	_
	AttrUnderscore
	AttrBlink
	_
	AttrReverseVideo
	AttrConcealed
)

const (
	ForeBlack AnsiFlag = (iota + 30) << 8
	ForeRed
	ForeGreen
	ForeYellow
	ForeBlue
	ForeMagenta
	ForeCyan
	ForeWhite
)

const (
	BackBlack AnsiFlag = (iota + 40) << 16
	BackRed
	BackGreen
	BackYellow
	BackBlue
	BackMagenta
	BackCyan
	BackWhite
)

func (f AnsiFlag) String() string {
	codes := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		if c := (f >> (8 * i)) & 0xFF; c != 0 {
			codes = append(codes, strconv.Itoa(int(c)))
		}
	}
	if len(codes) == 0 {
		return "\033[0m"
	}
	return "\033[" + strings.Join(codes, ";") + "m"
}
