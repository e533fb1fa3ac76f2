package lsp

import (
	"nsguard/internal/analysis"
	"nsguard/internal/diag"
	"nsguard/internal/langversion"
	"nsguard/internal/source"
)

const diagnosticSource = "nsguard"

// analyze checks the current text of uri. It returns nil for unknown documents.
func (s *Server) analyze(uri string) *analysis.Report {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	text := doc.text
	opts := analysis.Options{
		Prefix:         s.prefix,
		Solc:           s.solc,
		MaxDiagnostics: s.maxDiagnostics,
		Resolver:       s.resolver,
		Logger:         s.logger,
	}
	s.mu.Unlock()

	path := uriToPath(uri)
	name := path
	if name == "" {
		name = uri
	}
	content := []byte(text)
	version := s.versions.Get(uri, func() langversion.Version {
		return opts.Resolver.Resolve(langversion.Request{Path: path, Content: content, Setting: opts.Solc})
	})
	fs := source.NewFileSet()
	file := fs.Get(fs.Add(name, content, source.FileVirtual))
	report := analysis.AnalyzeVersion(file, version, opts)
	return &report
}

func (s *Server) publish(uri string) error {
	report := s.analyze(uri)
	if report == nil {
		return nil
	}
	s.mu.Lock()
	doc := s.docs[uri]
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	version := doc.version
	clientURI := doc.uri
	if len(report.Diagnostics) > 0 {
		s.published[uri] = clientURI
	} else {
		delete(s.published, uri)
	}
	s.mu.Unlock()
	return s.sendPublish(clientURI, &version, toLSPDiagnostics(report))
}

func (s *Server) sendPublish(uri string, version *int, diags []lspDiagnostic) error {
	if diags == nil {
		diags = []lspDiagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diags,
	})
}

func (s *Server) clearPublishedDiagnostics() {
	s.mu.Lock()
	uris := make([]string, 0, len(s.published))
	for _, clientURI := range s.published {
		uris = append(uris, clientURI)
	}
	s.published = make(map[string]string)
	s.mu.Unlock()
	for _, uri := range uris {
		if err := s.sendPublish(uri, nil, nil); err != nil {
			s.logger.Warn("failed to clear diagnostics", "uri", uri, "error", err)
		}
	}
}

func toLSPDiagnostics(r *analysis.Report) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(r.Diagnostics))
	for i := range r.Diagnostics {
		out = append(out, toLSPDiagnostic(r.File, &r.Diagnostics[i]))
	}
	return out
}

func toLSPDiagnostic(file *source.File, d *diag.Diagnostic) lspDiagnostic {
	return lspDiagnostic{
		Range:    rangeForSpan(file, d.Primary),
		Severity: lspSeverity(d.Severity),
		Code:     d.Code.ID(),
		Source:   diagnosticSource,
		Message:  d.Message,
	}
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	case diag.SevInfo:
		return 3
	default:
		return 4
	}
}
