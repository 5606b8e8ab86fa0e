// Command seoctl runs SEO analyses and knowledge-grounded chat from the terminal.
//
// Usage:
//
//	seoctl analyze <url> [--format json|markdown]
//	seoctl chat <message> [--session <id>]
//	seoctl history [--limit n]
//	seoctl seed
package main

func main() {
	Execute()
}
