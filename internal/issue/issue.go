// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

// Id identifies a catalog issue page.
type Id int

// Catalog issue identifiers.
const (
	MissingEnvVarId Id = iota + 1
	DocumentNotFoundId
	ProjectDirNotFoundId
	StagingCollisionId
	RendererFailedId
	ConfigLoadFailedId
)

// MarkdownMsg is the markdown body of an issue page.
type MarkdownMsg string

// Issue is a pre-authored help page shown alongside a fatal error.
type Issue struct {
	id    Id
	mdMsg MarkdownMsg
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue page with glamour using the given style
// ("dark", "light", "auto", or a style file path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

// render is swappable in tests to avoid terminal-dependent output.
var render = glamour.Render

var (
	missingEnvVarIssue = &Issue{
		id: MissingEnvVarId,
		mdMsg: `
# Required environment variable not set

docstage needs two environment variables to locate the template project:

~~~
DOCSTAGE_PROJECT_DIR    path to the template project directory
DOCSTAGE_OUTPUT_DIR     output directory, relative to the project
~~~

Set both and retry, e.g.:

~~~
$ export DOCSTAGE_PROJECT_DIR=~/templates/report-project
$ export DOCSTAGE_OUTPUT_DIR=_output
~~~`,
	}

	documentNotFoundIssue = &Issue{
		id: DocumentNotFoundId,
		mdMsg: `
# Document not found

The document passed on the command line does not exist or is not a regular
file. Check the path and try again:

~~~
$ docstage path/to/document.qmd
~~~`,
	}

	projectDirNotFoundIssue = &Issue{
		id: ProjectDirNotFoundId,
		mdMsg: `
# Project directory not found

The directory named by ` + "`DOCSTAGE_PROJECT_DIR`" + ` does not exist.

## Things you can try
- Check the variable for typos
- Make sure the template project has been checked out`,
	}

	stagingCollisionIssue = &Issue{
		id: StagingCollisionId,
		mdMsg: `
# Staging collision

A file with the same name as the document or one of its resources already
exists in the project directory. docstage refuses to overwrite it.

## Things you can try
- Rename the colliding file in the project directory
- Rename your document or resource
- Remove a leftover copy from an interrupted previous run`,
	}

	rendererFailedIssue = &Issue{
		id: RendererFailedId,
		mdMsg: `
# Renderer failed

The external renderer exited with a non-zero status. Its own output above
should explain why. All staged files have been removed from the project
directory.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The docstage config file exists but could not be parsed or validated.

## Things you can try
- Check the file for CUE syntax errors
- Compare the keys against ` + "`docstage --help`" + `
- Delete the file to fall back to defaults`,
	}

	catalog = map[Id]*Issue{
		MissingEnvVarId:      missingEnvVarIssue,
		DocumentNotFoundId:   documentNotFoundIssue,
		ProjectDirNotFoundId: projectDirNotFoundIssue,
		StagingCollisionId:   stagingCollisionIssue,
		RendererFailedId:     rendererFailedIssue,
		ConfigLoadFailedId:   configLoadFailedIssue,
	}
)

// Get returns the catalog issue for the given id, or nil if unknown.
func Get(id Id) *Issue {
	return catalog[id]
}
