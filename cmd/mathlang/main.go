// Mathlang evaluates programs in a small mathematical language.
//
// With -e, it evaluates the given source and exits. With a file argument,
// it evaluates the file. With neither, it reads statements interactively.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/mathlang/mathlang"
)

const historyFile = ".mathlang_history"

func main() {
	log.SetFlags(0)
	var (
		expr   string
		digits int
		deg    bool
		sep    bool
	)
	flag.StringVar(&expr, "e", "", "evaluate `source` and exit")
	flag.IntVar(&digits, "p", mathlang.DefaultDigits, "significant decimal `digits` of arithmetic")
	flag.BoolVar(&deg, "deg", false, "trigonometric functions use degrees")
	flag.BoolVar(&sep, "sep", false, "group digits of printed numbers")
	flag.Parse()

	opts := []mathlang.ContextOption{mathlang.Digits(digits)}
	if deg {
		opts = append(opts, mathlang.Angle(mathlang.Degrees))
	}
	ctx := mathlang.NewContext(opts...)
	out := printer(sep)

	switch {
	case expr != "":
		if !run(expr, ctx, out) {
			os.Exit(1)
		}
	case flag.NArg() > 0:
		src, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		if !run(string(src), ctx, out) {
			os.Exit(1)
		}
	default:
		repl(ctx, out)
	}
}

// run parses and evaluates src, printing the result or its errors. It
// reports whether evaluation succeeded.
func run(src string, ctx *mathlang.Context, out func(mathlang.Value)) bool {
	r := mathlang.Parse(src)
	if !r.Valid {
		for _, err := range r.Errors {
			fmt.Fprintln(os.Stderr, err)
			line, col := err.Position()
			if s := mathlang.Snippet(src, line, col); s != "" {
				fmt.Fprintln(os.Stderr, s)
			}
		}
		return false
	}
	v, err := mathlang.Evaluate(r.AST, ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	out(v)
	return true
}

// printer renders results, optionally grouping the digits of plain numbers
// in the current locale's style.
func printer(sep bool) func(mathlang.Value) {
	if !sep {
		return func(v mathlang.Value) { fmt.Println(v) }
	}
	p := message.NewPrinter(language.English)
	return func(v mathlang.Value) {
		if v.Tag == mathlang.TagNumber {
			p.Printf("%v\n", number.Decimal(v.Num()))
			return
		}
		fmt.Println(v)
	}
}

func repl(ctx *mathlang.Context, out func(mathlang.Value)) {
	home, _ := os.UserHomeDir()
	hist := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(hist); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	for {
		src, err := ln.Prompt("> ")
		switch {
		case errors.Is(err, io.EOF):
			fmt.Println()
			return
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case err != nil:
			log.Fatal(err)
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(src)
		run(src, ctx, out)
	}
}
