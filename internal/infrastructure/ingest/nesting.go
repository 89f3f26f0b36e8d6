package ingest

import (
	"bytes"
	"errors"
)

// MaxNesting profundidad máxima de arrays y diccionarios anidados que se acepta en un PDF.
const MaxNesting = 64

var errTooDeep = errors.New("anidamiento de arrays o diccionarios demasiado profundo")

// checkNesting recorre sintaxis PDF (archivo o content stream decodificado) con un bucle y
// falla si arrays o diccionarios superan MaxNesting niveles. Los cierres sueltos se ignoran.
// Salta comentarios, strings, nombres, datos de streams e imágenes inline.
func checkNesting(data []byte) error {
	depth := 0
	open := func() error {
		depth++
		if depth > MaxNesting {
			return errTooDeep
		}
		return nil
	}
	closeOne := func() {
		if depth > 0 {
			depth--
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			i = skipLiteral(data, i)
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			if err := open(); err != nil {
				return err
			}
			i += 2
		case c == '<':
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				return nil
			}
			i += j + 1
		case c == '>' && i+1 < len(data) && data[i+1] == '>':
			closeOne()
			i += 2
		case c == '[':
			if err := open(); err != nil {
				return err
			}
			i++
		case c == ']':
			closeOne()
			i++
		case c == '/':
			i++
			for i < len(data) && isRegular(data[i]) {
				i++
			}
		case isRegular(c):
			j := i
			for j < len(data) && isRegular(data[j]) {
				j++
			}
			switch string(data[i:j]) {
			case "stream":
				j = skipPast(data, j, []byte("endstream"))
			case "ID":
				j = skipInlineImage(data, j)
			}
			i = j
		default:
			i++
		}
	}
	return nil
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isRegular(c byte) bool {
	return !isWhite(c) && bytes.IndexByte([]byte("()<>[]{}/%"), c) < 0
}

// skipLiteral avanza sobre un string (...) con paréntesis balanceados y escapes.
func skipLiteral(data []byte, i int) int {
	level := 0
	for ; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '(':
			level++
		case ')':
			level--
			if level == 0 {
				return i + 1
			}
		}
	}
	return len(data)
}

func skipPast(data []byte, i int, marker []byte) int {
	j := bytes.Index(data[i:], marker)
	if j < 0 {
		return len(data)
	}
	return i + j + len(marker)
}

// skipInlineImage salta los datos binarios entre ID y EI.
func skipInlineImage(data []byte, i int) int {
	for {
		j := bytes.Index(data[i:], []byte("EI"))
		if j < 0 {
			return len(data)
		}
		at := i + j
		end := at + 2
		if at > 0 && isWhite(data[at-1]) && (end == len(data) || isWhite(data[end])) {
			return end
		}
		i = at + 1
	}
}
