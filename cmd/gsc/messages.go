// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/gsctools/gsc/internal/issue"
)

// message identifies a localized progress or result line.
type message int

const (
	msgProjectCreated message = iota
	msgCompilerInstalled
	msgCompiled
	msgPublished
	msgWatching
	msgWatchingAgain
	msgChangeDetected
	msgConfigCreated
	msgConfigDefaults
)

var messages = map[message]map[issue.Lang]string{
	msgProjectCreated: {
		issue.LangEnglish:    "project created successfully: %s",
		issue.LangPortuguese: "projeto criado com sucesso: %s",
	},
	msgCompilerInstalled: {
		issue.LangEnglish:    "compiler installed into %s",
		issue.LangPortuguese: "compilador instalado em %s",
	},
	msgCompiled: {
		issue.LangEnglish:    "source compiled successfully",
		issue.LangPortuguese: "código fonte compilado com sucesso",
	},
	msgPublished: {
		issue.LangEnglish:    "compiled file published to %s",
		issue.LangPortuguese: "arquivo compilado movido com sucesso para %s",
	},
	msgWatching: {
		issue.LangEnglish:    "watching %s for changes (Ctrl+C to stop)",
		issue.LangPortuguese: "observando alterações em %s (Ctrl+C para sair)",
	},
	msgWatchingAgain: {
		issue.LangEnglish:    "waiting for changes...",
		issue.LangPortuguese: "aguardando alterações...",
	},
	msgChangeDetected: {
		issue.LangEnglish:    "%s changed, rebuilding",
		issue.LangPortuguese: "%s alterado, compilando novamente",
	},
	msgConfigCreated: {
		issue.LangEnglish:    "configuration written to %s",
		issue.LangPortuguese: "configuração gravada em %s",
	},
	msgConfigDefaults: {
		issue.LangEnglish:    "no configuration file found, showing defaults",
		issue.LangPortuguese: "nenhum arquivo de configuração encontrado, exibindo os valores padrão",
	},
}

// localize formats m in lang, falling back to English.
func localize(lang issue.Lang, m message, args ...any) string {
	texts := messages[m]
	format, ok := texts[lang]
	if !ok {
		format = texts[issue.LangEnglish]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
