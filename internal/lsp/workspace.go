package lsp

import (
	"log"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/analysis"
	"github.com/awklsp/awk-languageserver/internal/server"
)

// DidChangeConfiguration handles workspace/didChangeConfiguration. Settings
// live under the "awk" namespace; any recognized field present in the
// settings triggers revalidation of every live document, even when its
// value is unchanged, since mode/warning toggles and the include search
// path all feed back into analysis.
func DidChangeConfiguration(context *glsp.Context, params *protocol.DidChangeConfigurationParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChangeConfiguration")
		return nil
	}

	settingsMap, ok := params.Settings.(map[string]interface{})
	if !ok {
		return nil
	}
	awkSettings, ok := settingsMap["awk"].(map[string]interface{})
	if !ok {
		return nil
	}

	changed := false
	srv.Config().Update(func(c *analysis.Config) {
		if max, ok := awkSettings["maxNumberOfProblems"].(float64); ok {
			c.SetMaxNumberOfProblems(int(max))
			changed = true
		}
		if mode, ok := awkSettings["mode"].(string); ok {
			c.SetGawkMode(mode == "gawk")
			changed = true
		}
		if warnings, ok := awkSettings["stylisticWarnings"].(map[string]interface{}); ok {
			if v, ok := warnings["missingSemicolon"].(bool); ok {
				c.SetMissingSemicolonWarnings(v)
				changed = true
			}
			if v, ok := warnings["compatibility"].(bool); ok {
				c.SetCompatibilityWarnings(v)
				changed = true
			}
			if v, ok := warnings["checkFunctionCalls"].(bool); ok {
				c.SetCheckFunctionCalls(v)
				changed = true
			}
		}
		if path, ok := awkSettings["path"].([]interface{}); ok {
			var dirs []string
			for _, p := range path {
				if s, ok := p.(string); ok {
					dirs = append(dirs, s)
				}
			}
			c.SetIncludePath(dirs)
			changed = true
		}
	})

	if !changed {
		return nil
	}

	log.Println("awklsp: configuration changed, revalidating open documents")
	bindPublish(srv, context)
	for _, doc := range srv.Graph().All() {
		if doc.IsLive() {
			srv.Queue().Enqueue(doc.URI, doc.Text, true)
		}
	}
	return nil
}

// DidChangeWorkspaceFolders handles workspace/didChangeWorkspaceFolders.
func DidChangeWorkspaceFolders(context *glsp.Context, params *protocol.DidChangeWorkspaceFoldersParams) error {
	srv, ok := serverInstance.(*server.Server)
	if !ok || srv == nil {
		log.Println("Warning: server instance not available in DidChangeWorkspaceFolders")
		return nil
	}

	folders := srv.GetWorkspaceFolders()
	for _, f := range params.Event.Added {
		folders = append(folders, f.URI)
	}
	if len(params.Event.Removed) > 0 {
		removed := make(map[string]bool)
		for _, f := range params.Event.Removed {
			removed[f.URI] = true
		}
		var kept []string
		for _, uri := range folders {
			if !removed[uri] {
				kept = append(kept, uri)
			}
		}
		folders = kept
	}
	srv.SetWorkspaceFolders(folders)
	return nil
}
