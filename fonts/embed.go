package fonts

import (
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体使用 Go 字体族，正文为比例字体，代码为等宽字体。
const (
	BodyFamily = "Go"
	MonoFamily = "Go Mono"
)

// Body 返回正文字体的 TTF 数据。
func Body(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

// Mono 返回等宽字体的 TTF 数据。等宽字体没有斜体变体。
func Mono(bold bool) []byte {
	if bold {
		return gomonobold.TTF
	}
	return gomono.TTF
}
