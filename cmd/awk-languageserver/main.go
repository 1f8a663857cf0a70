package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/awklsp/awk-languageserver/internal/lsp"
	"github.com/awklsp/awk-languageserver/internal/server"
)

const version = "0.1.0"

var (
	tcpMode  bool
	tcpPort  int
	logLevel string
	logFile  string
)

func init() {
	flag.BoolVar(&tcpMode, "tcp", false, "Run server in TCP mode (for debugging)")
	flag.IntVar(&tcpPort, "port", 8765, "TCP port to listen on (used with -tcp)")
	flag.StringVar(&logLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "awk-languageserver version %s\n\n", version)
	fmt.Fprintf(os.Stderr, "Usage: awk-languageserver [options]\n\n")
	fmt.Fprintf(os.Stderr, "Language Server Protocol implementation for AWK\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if flag.NArg() > 0 && flag.Arg(0) == "version" {
		fmt.Printf("awk-languageserver version %s\n", version)
		os.Exit(0)
	}

	setupLogging()

	fmt.Fprintf(os.Stderr, "awk-languageserver version %s starting...\n", version)
	fmt.Fprintf(os.Stderr, "Transport: ")
	if tcpMode {
		fmt.Fprintf(os.Stderr, "TCP (port %d)\n", tcpPort)
	} else {
		fmt.Fprintf(os.Stderr, "STDIO\n")
	}
	fmt.Fprintf(os.Stderr, "Log level: %s\n", logLevel)

	srv := server.New()

	handler := protocol.Handler{
		Initialize:                         lsp.Initialize,
		Initialized:                        lsp.Initialized,
		Shutdown:                           lsp.Shutdown,
		SetTrace:                           func(context *glsp.Context, params *protocol.SetTraceParams) error { return nil },
		TextDocumentDidOpen:                lsp.DidOpen,
		TextDocumentDidChange:              lsp.DidChange,
		TextDocumentDidClose:               lsp.DidClose,
		TextDocumentHover:                  lsp.Hover,
		TextDocumentDefinition:             lsp.Definition,
		TextDocumentReferences:             lsp.References,
		TextDocumentCompletion:             lsp.Completion,
		CompletionItemResolve:              lsp.ResolveCompletionItem,
		TextDocumentDocumentSymbol:         lsp.DocumentSymbol,
		WorkspaceSymbol:                    lsp.WorkspaceSymbol,
		TextDocumentSignatureHelp:          lsp.SignatureHelp,
		WorkspaceDidChangeConfiguration:    lsp.DidChangeConfiguration,
		WorkspaceDidChangeWorkspaceFolders: lsp.DidChangeWorkspaceFolders,
	}

	glspServer := glspserver.NewServer(&handler, "awk-languageserver", false)

	lsp.SetServer(srv)

	if tcpMode {
		fmt.Fprintf(os.Stderr, "Starting TCP server on port %d...\n", tcpPort)
		if err := glspServer.RunTCP(fmt.Sprintf("127.0.0.1:%d", tcpPort)); err != nil {
			log.Fatalf("TCP server error: %v", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Starting STDIO server...\n")
		if err := glspServer.RunStdio(); err != nil {
			log.Fatalf("STDIO server error: %v", err)
		}
	}
}

// setupLogging configures the logging system based on command-line flags.
func setupLogging() {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		log.SetOutput(f)
	} else {
		log.SetOutput(os.Stderr)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
