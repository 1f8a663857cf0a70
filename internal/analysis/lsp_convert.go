package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/awklsp/awk-languageserver/internal/awkparse"
	"github.com/awklsp/awk-languageserver/internal/position"
)

func toLSPPosition(p position.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

func toLSPRange(r position.Range) protocol.Range {
	return protocol.Range{Start: toLSPPosition(r.Start), End: toLSPPosition(r.End)}
}

func toLSPSeverity(sev awkparse.Severity) protocol.DiagnosticSeverity {
	switch sev {
	case awkparse.SeverityError:
		return protocol.DiagnosticSeverityError
	case awkparse.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case awkparse.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	case awkparse.SeverityHint:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func strPtr(s string) *string                                               { return &s }
