// Package templates renders the small server-side pages of the game.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const statusPage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Cointrail</title>
</head>
<body>
	<h1>Cointrail</h1>
	<p>The game server is running. The browser client talks to <code>/api/state</code>.</p>
</body>
</html>
`

// StatusPage renders the landing page served at the server root.
func StatusPage() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, statusPage)
		return err
	})
}
