package tui

const helpMarkdown = `# Stepper

Each line is an independent quantity stepper. Changes are committed
after a **quiet period** with no further input; only a value that
differs from the last committed one is sent.

| Key | Action |
| --- | --- |
| ↑ ↓ / k j | select line |
| + / → | increment |
| - / ← | decrement |
| ] | hold increment |
| [ | hold decrement |
| space | release hold |
| ? | toggle help |
| q | quit |

A held button repeats every repeat interval until released. Values are
clamped to each line's bounds.

- ` + "`*`" + ` marks a line whose value differs from its committed one
- ` + "`…`" + ` marks a line waiting out its quiet period
`
