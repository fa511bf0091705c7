// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// DescriptorNotFoundId is reported when gsc.json is absent.
	DescriptorNotFoundId Id = iota + 1
	DescriptorCorruptId
	DescriptorNameMissingId
	CompilerNotFoundId
	ConfigLoadFailedId
	ProjectNameMissingId
	SourceDirUnreadableId
	FragmentUnreadableId
	BuildDirCreateFailedId
	MergedUnitWriteFailedId
	StaleArtifactRemoveFailedId
	DestinationCreateFailedId
	DetectorStartFailedId
	DistDirCreateFailedId
	ArtifactMoveFailedId
	ArtifactCopyFailedId
	ProjectDirCreateFailedId
	DescriptorWriteFailedId
	SourceDirCreateFailedId
	MainFileWriteFailedId
	CompilerInstallFailedId
	WatchStartFailedId
	CompilerSpawnFailedId
	CompileFailedId
	BuildTimedOutId
)

const (
	// LangEnglish is the fallback language of every catalog entry.
	LangEnglish Lang = "en"
	// LangPortuguese is Brazilian Portuguese, the language of the original tool.
	LangPortuguese Lang = "pt-BR"
	// LangAuto derives the language from the process locale.
	LangAuto Lang = "auto"
)

type (
	// Id identifies a catalog entry.
	Id int

	// Lang is a message language tag.
	Lang string

	// MarkdownMsg is Markdown guidance rendered in verbose mode.
	MarkdownMsg string

	// Issue is one catalog entry.
	Issue struct {
		id    Id
		kind  error
		msgs  map[Lang]string
		mdMsg MarkdownMsg
	}
)

// ParseLang resolves a configured language. LangAuto and unknown values are
// resolved through the locale variables returned by getenv.
func ParseLang(value string, getenv func(string) string) Lang {
	switch Lang(value) {
	case LangEnglish, LangPortuguese:
		return Lang(value)
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := strings.ToLower(getenv(key))
		if v == "" {
			continue
		}
		if strings.HasPrefix(v, "pt") {
			return LangPortuguese
		}
		return LangEnglish
	}
	return LangEnglish
}

func (i *Issue) Id() Id {
	return i.id
}

// Kind returns ErrConfiguration, ErrIO or ErrCompile.
func (i *Issue) Kind() error {
	return i.kind
}

// Message returns the short user message in lang, falling back to English.
func (i *Issue) Message(lang Lang) string {
	if msg, ok := i.msgs[lang]; ok {
		return msg
	}
	return i.msgs[LangEnglish]
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render returns the Markdown guidance rendered for a terminal. Entries
// without guidance render to the empty string.
func (i *Issue) Render(stylePath string) (string, error) {
	if i.mdMsg == "" {
		return "", nil
	}
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		DescriptorNotFoundId: {
			id:   DescriptorNotFoundId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "could not find the project descriptor file",
				LangPortuguese: "não foi possível encontrar o arquivo de descrição do projeto",
			},
			mdMsg: `
# No gsc.json found!

Builds run from the project root, next to the ` + "`gsc.json`" + ` descriptor.

## Things you can try:
- Change into the project directory:
~~~
$ cd my-mod
$ gsc build
~~~
- Or create a new project:
~~~
$ gsc create my-mod
~~~`,
		},
		DescriptorCorruptId: {
			id:   DescriptorCorruptId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "the project descriptor file is corrupted",
				LangPortuguese: "o arquivo de descrição do projeto está corrompido",
			},
			mdMsg: `
# gsc.json could not be parsed!

The descriptor must be a JSON object:
~~~json
{
    "name": "my-mod",
    "destination": "./dist",
    "compiler": "./compiler/Compiler.exe"
}
~~~`,
		},
		DescriptorNameMissingId: {
			id:   DescriptorNameMissingId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "the project descriptor file has no project name",
				LangPortuguese: "o arquivo de descrição do projeto não informa o nome do projeto",
			},
			mdMsg: `
# The project has no name!

` + "`name`" + ` is required: it names the merged file, the compiled artifact
and the published script.`,
		},
		CompilerNotFoundId: {
			id:   CompilerNotFoundId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "could not find the compiler",
				LangPortuguese: "não foi possível encontrar o compilador",
			},
			mdMsg: `
# Compiler not found!

The ` + "`compiler`" + ` field of gsc.json is resolved relative to the project root.
When it is absent ` + "`./compiler.exe`" + ` is used.

## Things you can try:
- Point ` + "`compiler`" + ` at the compiler executable
- Create new projects with a bundled compiler:
~~~
$ gsc create my-mod --compiler-bundle /path/to/compiler
~~~`,
		},
		ConfigLoadFailedId: {
			id:   ConfigLoadFailedId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "failed to load the configuration",
				LangPortuguese: "erro ao carregar a configuração",
			},
		},
		ProjectNameMissingId: {
			id:   ProjectNameMissingId,
			kind: ErrConfiguration,
			msgs: map[Lang]string{
				LangEnglish:    "you need to provide a name for the project",
				LangPortuguese: "você precisa informar um nome para o projeto",
			},
		},
		SourceDirUnreadableId: {
			id:   SourceDirUnreadableId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to read the source directory",
				LangPortuguese: "erro ao ler a pasta de código fonte",
			},
		},
		FragmentUnreadableId: {
			id:   FragmentUnreadableId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to read a source file",
				LangPortuguese: "erro ao ler um arquivo de código fonte",
			},
		},
		BuildDirCreateFailedId: {
			id:   BuildDirCreateFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the build directory",
				LangPortuguese: "erro ao criar a pasta de build",
			},
		},
		MergedUnitWriteFailedId: {
			id:   MergedUnitWriteFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to write the merged source file",
				LangPortuguese: "erro ao compilar o código fonte",
			},
		},
		StaleArtifactRemoveFailedId: {
			id:   StaleArtifactRemoveFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to remove the previous compiled file",
				LangPortuguese: "erro ao remover o arquivo compilado anterior",
			},
		},
		DestinationCreateFailedId: {
			id:   DestinationCreateFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the destination directory",
				LangPortuguese: "erro ao criar a pasta de destino",
			},
		},
		DetectorStartFailedId: {
			id:   DetectorStartFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to watch the project directory for the compiled file",
				LangPortuguese: "erro ao observar a pasta do projeto",
			},
			mdMsg: `
# The project directory cannot be watched!

gsc detects a finished build by watching the project root for
` + "`<name>-compiled.gsc`" + `. On Linux this needs a free inotify watch.

## Things you can try:
~~~
$ sysctl fs.inotify.max_user_watches
~~~`,
		},
		DistDirCreateFailedId: {
			id:   DistDirCreateFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the dist directory",
				LangPortuguese: "erro ao criar a pasta dist",
			},
		},
		ArtifactMoveFailedId: {
			id:   ArtifactMoveFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to move the compiled file",
				LangPortuguese: "erro ao mover o arquivo compilado",
			},
		},
		ArtifactCopyFailedId: {
			id:   ArtifactCopyFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to copy the compiled file to the destination directory",
				LangPortuguese: "erro ao copiar o arquivo compilado para a pasta de destino",
			},
		},
		ProjectDirCreateFailedId: {
			id:   ProjectDirCreateFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the project directory",
				LangPortuguese: "erro ao criar o diretório do projeto",
			},
		},
		DescriptorWriteFailedId: {
			id:   DescriptorWriteFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the project descriptor file",
				LangPortuguese: "erro ao criar o arquivo de descrição do projeto",
			},
		},
		SourceDirCreateFailedId: {
			id:   SourceDirCreateFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the source directory",
				LangPortuguese: "erro ao criar a pasta de código fonte",
			},
		},
		MainFileWriteFailedId: {
			id:   MainFileWriteFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to create the main source file",
				LangPortuguese: "erro ao criar o arquivo principal",
			},
		},
		CompilerInstallFailedId: {
			id:   CompilerInstallFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to install the bundled compiler",
				LangPortuguese: "erro ao instalar o compilador",
			},
		},
		WatchStartFailedId: {
			id:   WatchStartFailedId,
			kind: ErrIO,
			msgs: map[Lang]string{
				LangEnglish:    "failed to watch the source directory",
				LangPortuguese: "erro ao observar a pasta de código fonte",
			},
		},
		CompilerSpawnFailedId: {
			id:   CompilerSpawnFailedId,
			kind: ErrCompile,
			msgs: map[Lang]string{
				LangEnglish:    "failed to start the compiler",
				LangPortuguese: "erro ao iniciar o compilador",
			},
		},
		CompileFailedId: {
			id:   CompileFailedId,
			kind: ErrCompile,
			msgs: map[Lang]string{
				LangEnglish:    "failed to compile the source code",
				LangPortuguese: "erro ao compilar o código fonte",
			},
			mdMsg: `
# The compiler exited without producing a script!

A build succeeds only when ` + "`<name>-compiled.gsc`" + ` appears in the project
root before the compiler exits. Check the compiler output above for syntax
errors in ` + "`build/<name>.gsc`" + `.`,
		},
		BuildTimedOutId: {
			id:   BuildTimedOutId,
			kind: ErrCompile,
			msgs: map[Lang]string{
				LangEnglish:    "the compiler did not finish within the configured timeout",
				LangPortuguese: "o compilador não terminou dentro do tempo limite configurado",
			},
		},
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
