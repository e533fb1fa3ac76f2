package lsp

import (
	"encoding/json"
	"sort"

	"nsguard/internal/erc7201"
)

func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if !s.decodeNotification(msg, &params) {
		return nil
	}
	if !s.applySettings(params.Settings) {
		return nil
	}
	s.versions.Invalidate()
	return s.republishAll()
}

// applySettings reports whether anything changed. Both the wrapped
// {"nsguard": {...}} form and the bare section are accepted.
func (s *Server) applySettings(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var settings lspSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return false
	}
	section := settings.Nsguard
	if section.Prefix == nil && section.SolidityVersion == nil {
		if err := json.Unmarshal(raw, &section); err != nil {
			return false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	if p := section.Prefix; p != nil && *p != s.prefix {
		if erc7201.ValidPrefix(*p) {
			s.prefix = *p
			changed = true
		} else {
			s.logger.Warn("ignoring invalid namespace prefix", "prefix", *p)
		}
	}
	if v := section.SolidityVersion; v != nil && *v != s.solc {
		s.solc = *v
		changed = true
	}
	return changed
}

func (s *Server) republishAll() error {
	s.mu.Lock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	s.mu.Unlock()
	sort.Strings(uris)
	for _, uri := range uris {
		if err := s.publish(uri); err != nil {
			return err
		}
	}
	return nil
}
