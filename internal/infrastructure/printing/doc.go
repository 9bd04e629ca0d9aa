// Package printing renders lease statements to PDF with headless Chrome.
//
// StatementPrinter lays a statement out as HTML and hands it to a
// PDFRenderer; ChromedpRenderer is the production renderer and drives
// Chrome through the DevTools protocol, either a local process or a
// remote instance given by its websocket URL.
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//	printer := NewStatementPrinter(renderer, logger)
//	pdf, err := printer.RenderLeaseStatement(ctx, statement)
package printing
