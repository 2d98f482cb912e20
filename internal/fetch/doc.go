// Package fetch provides the page-fetching boundary of wikihist.
//
// The crawl core never talks HTTP directly; it depends on the PageSource
// interface, and HTTPSource is the production implementation. Keeping the
// boundary this narrow means the core only ever sees a status code and a
// byte slice, and tests can substitute canned pages trivially.
//
// Design decision: PageSource lives in its own package because both the
// wiki crawler and the people directory consume it; placing it in either
// would create an import cycle.
package fetch
