package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ListOrders(ctx context.Context) error
	ListCatalog(ctx context.Context) error
	ImportDelta(ctx context.Context) error
	OpenBook(ctx context.Context) error
	AddNote(ctx context.Context) error
	DeleteNote(ctx context.Context) error
	Reload(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on a. Unknown commands are reported back. The loop
// exits on scanner EOF or when the user types "exit" or "quit". Handler
// errors are printed as an operator notice; nothing here is fatal.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("vigia> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: ordenes, inventario, importar, libro, nota, borrar, recargar, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}
		case "exit", "quit":
			return
		case "login":
			report(a.Login(ctx))
		case "logout":
			report(a.Logout(ctx))
		case "ordenes":
			requireLogin(ctx, a, a.ListOrders)
		case "inventario":
			requireLogin(ctx, a, a.ListCatalog)
		case "importar":
			requireLogin(ctx, a, a.ImportDelta)
		case "libro":
			requireLogin(ctx, a, a.OpenBook)
		case "nota":
			requireLogin(ctx, a, a.AddNote)
		case "borrar":
			requireLogin(ctx, a, a.DeleteNote)
		case "recargar":
			requireLogin(ctx, a, a.Reload)
		default:
			printlnFn(fmt.Sprintf("Unknown command: %s (try 'help')", cmd))
		}
	}
}

func requireLogin(ctx context.Context, a execIface, fn func(context.Context) error) {
	if !a.isLoggedIn() {
		printlnFn("Not logged in (use 'login')")
		return
	}
	report(fn(ctx))
}

func report(err error) {
	if err != nil {
		printlnFn(fmt.Sprintf("Error: %v", err))
	}
}

// Root runs the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	statusFn := func() string {
		if a.isLoggedIn() {
			return a.session.User()
		}
		return "sin sesión"
	}
	runREPL(ctx, a, statusFn, bufio.NewScanner(os.Stdin))
}
