// Command docinspect is a minimal pager and line editor built on top of
// the document package: it loads a file, lets you scroll and jump
// around it, run a case-insensitive search, and save back to disk. It
// exists to exercise the document core end to end, not as an editor.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"runtime/pprof"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/google/shlex"
	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"github.com/arkedit/doccore/cellwidth"
	"github.com/arkedit/doccore/config"
	"github.com/arkedit/doccore/cursor"
	"github.com/arkedit/doccore/document"
	"github.com/arkedit/doccore/text"
)

var logpath = flag.String("log", "", "log to file")
var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if len(flag.Args()) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	log.SetFlags(log.Ltime | log.Lmicroseconds | log.Llongfile)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(ioutil.Discard)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			exitWithError(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		exitWithError(err)
	}
	if err := screen.Init(); err != nil {
		exitWithError(err)
	}
	defer screen.Fini()

	path := flag.Arg(0)
	insp, err := newInspector(path)
	if err != nil {
		exitWithError(err)
	}

	insp.run(screen)
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] path\n", os.Args[0])
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}

// inspector holds the state of the running pager: the document and
// cursor under inspection, the current scroll position, and whatever
// the user is typing on the command line.
type inspector struct {
	path    string
	doc     *document.Document
	cur     *cursor.Cursor
	topLine int
	status  string
	cmdMode bool
	cmdLine text.RuneStack
	escaper text.Escaper
}

func newInspector(path string) (*inspector, error) {
	cfg := config.DefaultConfig()
	if cfgPath, err := config.DefaultPath(); err == nil {
		if loaded, err := config.Load(cfgPath); err == nil {
			cfg = loaded
		}
	}

	data, err := ioutil.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	doc, err := document.NewFromText(cfg, string(data))
	if err != nil {
		return nil, errors.Wrap(err, "loading document")
	}

	return &inspector{
		path:    path,
		doc:     doc,
		cur:     cursor.New(doc),
		topLine: 1,
		status:  fmt.Sprintf("%s: %d lines", path, doc.LineCount()),
	}, nil
}

func (insp *inspector) run(screen tcell.Screen) {
	for {
		insp.draw(screen)
		ev := screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if insp.cmdMode {
				if done := insp.handleCommandKey(ev); done {
					return
				}
				continue
			}
			if done := insp.handleNormalKey(screen, ev); done {
				return
			}
		}
	}
}

func (insp *inspector) handleNormalKey(screen tcell.Screen, ev *tcell.EventKey) (quit bool) {
	_, height := screen.Size()
	pageSize := height - 1
	if pageSize < 1 {
		pageSize = 1
	}

	switch {
	case ev.Key() == tcell.KeyCtrlC, ev.Key() == tcell.KeyEscape:
		return true
	case ev.Rune() == ':':
		insp.cmdMode = true
		insp.cmdLine = text.RuneStack{}
		return false
	case ev.Key() == tcell.KeyDown, ev.Rune() == 'j':
		insp.scrollBy(1)
	case ev.Key() == tcell.KeyUp, ev.Rune() == 'k':
		insp.scrollBy(-1)
	case ev.Key() == tcell.KeyPgDn:
		insp.scrollBy(pageSize)
	case ev.Key() == tcell.KeyPgUp:
		insp.scrollBy(-pageSize)
	case ev.Key() == tcell.KeyRight, ev.Rune() == 'l':
		insp.cur.MoveBy(1)
	case ev.Key() == tcell.KeyLeft, ev.Rune() == 'h':
		insp.cur.MoveBy(-1)
	case ev.Key() == tcell.KeyHome, ev.Rune() == 'g':
		insp.cur.MoveTo(0)
		insp.topLine = 1
	case ev.Key() == tcell.KeyEnd, ev.Rune() == 'G':
		insp.cur.MoveTo(insp.doc.CharLen())
		insp.followCursor()
	}
	return false
}

func (insp *inspector) scrollBy(delta int) {
	insp.topLine += delta
	if insp.topLine < 1 {
		insp.topLine = 1
	}
	if max := insp.doc.LineCount(); insp.topLine > max {
		insp.topLine = max
	}
}

// followCursor scrolls the viewport so the cursor's line is visible.
func (insp *inspector) followCursor() {
	insp.topLine = insp.cur.Line()
}

func (insp *inspector) handleCommandKey(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape:
		insp.cmdMode = false
		insp.cmdLine = text.RuneStack{}
	case tcell.KeyEnter:
		insp.cmdMode = false
		line := insp.cmdLine.String()
		insp.cmdLine = text.RuneStack{}
		return insp.execCommand(line)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		insp.cmdLine.Pop()
	default:
		if ev.Rune() != 0 {
			insp.cmdLine.Push(ev.Rune())
		}
	}
	return false
}

// execCommand runs a ":"-prefixed command line, split shell-style so
// arguments may be quoted (paths or search text containing spaces).
func (insp *inspector) execCommand(line string) (quit bool) {
	args, err := shlex.Split(line)
	if err != nil || len(args) == 0 {
		insp.status = fmt.Sprintf("invalid command: %q", line)
		return false
	}

	switch args[0] {
	case "q", "quit":
		return true
	case "w", "write", "save":
		path := insp.path
		if len(args) > 1 {
			path = args[1]
		}
		if err := insp.save(path); err != nil {
			insp.status = fmt.Sprintf("save failed: %v", err)
		} else {
			insp.status = fmt.Sprintf("saved %s", path)
		}
	case "goto":
		if len(args) < 2 {
			insp.status = "goto requires a line number"
			return false
		}
		var lineNum int
		if _, err := fmt.Sscanf(args[1], "%d", &lineNum); err != nil {
			insp.status = fmt.Sprintf("invalid line number %q", args[1])
			return false
		}
		insp.cur.MoveTo(insp.cur.ToPosition(lineNum, 0))
		insp.followCursor()
	case "find":
		if len(args) < 2 {
			insp.status = "find requires text to search for"
			return false
		}
		found, pos, err := insp.doc.FindText(args[1], language.Und)
		if err != nil {
			insp.status = fmt.Sprintf("search error: %v", err)
		} else if !found {
			insp.status = fmt.Sprintf("%q not found", args[1])
		} else {
			insp.cur.MoveTo(pos)
			insp.followCursor()
			insp.status = fmt.Sprintf("found %q at position %d", args[1], pos)
		}
	default:
		insp.status = fmt.Sprintf("unknown command %q", args[0])
	}
	return false
}

// save writes the document to path atomically: write to a temp file in
// the same directory, then rename it into place, so a crash mid-write
// never leaves a half-written file at path.
func (insp *inspector) save(path string) error {
	return atomicWriteFile(path, insp.doc.Read(0, insp.doc.CharLen()))
}

func (insp *inspector) draw(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	contentHeight := height - 1
	if contentHeight < 0 {
		contentHeight = 0
	}

	for row := 0; row < contentHeight; row++ {
		lineNum := insp.topLine + row
		start, end, ok := insp.doc.SpanForLine(lineNum)
		if !ok {
			break
		}
		insp.drawLine(screen, row, width, insp.doc.Read(start, end))
	}

	insp.drawStatusLine(screen, height-1, width)
	screen.Show()
}

// drawLine renders line starting at screen column 0. Control characters
// other than tab render as a "<U+XXXX>" escape so they take up visible
// space instead of disappearing into a zero-width cell.
func (insp *inspector) drawLine(screen tcell.Screen, row, width int, line string) {
	col := 0
	for _, r := range line {
		if col >= width {
			return
		}
		if unicode.IsControl(r) && r != '\t' {
			col = insp.drawEscaped(screen, row, col, width, r)
			continue
		}
		screen.SetContent(col, row, r, nil, tcell.StyleDefault)
		col += cellwidth.RuneWidth(r)
	}
}

func (insp *inspector) drawEscaped(screen tcell.Screen, row, col, width int, r rune) int {
	for _, er := range insp.escaper.RunesToStr([]rune{r}) {
		if col >= width {
			return col
		}
		screen.SetContent(col, row, er, nil, tcell.StyleDefault)
		col += cellwidth.RuneWidth(er)
	}
	return col
}

func (insp *inspector) drawStatusLine(screen tcell.Screen, row, width int) {
	style := tcell.StyleDefault.Reverse(true)
	line := insp.status
	if insp.cmdMode {
		line = ":" + insp.cmdLine.String()
		style = tcell.StyleDefault
	}
	col := 0
	for _, r := range line {
		if col >= width {
			break
		}
		screen.SetContent(col, row, r, nil, style)
		col += cellwidth.RuneWidth(r)
	}
	for ; col < width; col++ {
		screen.SetContent(col, row, ' ', nil, style)
	}
}
