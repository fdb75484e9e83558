package mcpserver

// ReferenceSyntax describes how notes reference each other and the
// bibliography, for LLM consumers writing into the vault.
const ReferenceSyntax = `# Laguz Reference Syntax

Notes live under the notes directory (default ` + "`" + `_notes/` + "`" + `) as Markdown files
with optional YAML frontmatter. Every build resolves references from scratch.

## Note identifiers

A note is known by:

1. its **file stem** (file name without directory and ` + "`" + `.md` + "`" + `), and
2. every bare **14-digit timestamp** in its body, e.g. ` + "`" + `20200101120000` + "`" + `.

Identifiers use letters, digits, space, ` + "`" + `-` + "`" + `, ` + "`" + `_` + "`" + `, ` + "`" + `+` + "`" + ` and ` + "`" + `.` + "`" + `.
Two notes claiming the same identifier abort the build, so keep timestamps unique.

## Note links

` + "```" + `markdown
See [[20200101120000]] or [[20200101120000 Some Idea]].
` + "```" + `

Resolved links render as a small ` + "`" + `[◦]` + "`" + ` marker pointing at the target note.
Unresolved links stay visible as ` + "`" + `[[id]]` + "`" + ` and are flagged as invalid; they never
fail the build. A timestamp written inside ` + "`" + `[[...]]` + "`" + ` is a link, not a new identifier.

## Citations

` + "```" + `markdown
As argued by @smith2020, ...
` + "```" + `

Citation keys use letters, digits, ` + "`" + `-` + "`" + `, ` + "`" + `_` + "`" + `, ` + "`" + `+` + "`" + ` and ` + "`" + `.` + "`" + `. The ` + "`" + `@` + "`" + ` must
not follow a letter or digit, so ` + "`" + `foo@bar.com` + "`" + ` is not a citation. A citation of a
key present in the bibliography links the note to that entry's literature note.

## Literature notes

Every bibliography entry has a literature note: a note whose frontmatter carries
` + "`" + `literature_note: true` + "`" + ` and ` + "`" + `slug: <key>` + "`" + `. Missing ones are generated. Fields
` + "`" + `title` + "`" + `, ` + "`" + `date` + "`" + `, ` + "`" + `bib_id` + "`" + `, ` + "`" + `bib_entry` + "`" + ` and ` + "`" + `bib_entry_json` + "`" + ` are filled from the
bibliography only when unset, so hand-written values win.

` + "```" + `markdown
---
literature_note: true
slug: smith2020
title: My own title for Smith's book
---

Reading notes on [[20200101120000]].
` + "```" + `
`
