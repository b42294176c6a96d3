// Package printing prints HTML documents to PDF with a headless Chrome
// driven over the DevTools protocol.
//
//	renderer, err := printing.NewChromedpRenderer(&cfg.Printing, printing.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer renderer.Close()
//
//	pdf, err := renderer.RenderPDF(ctx, html)
package printing
