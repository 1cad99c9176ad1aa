// internal/interfaces/http/handlers/invoice.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/music-storefront/internal/domain/order"
	"github.com/your-org/music-storefront/internal/interfaces/http/middleware"
)

// InvoiceRenderer produces printable invoices locally
type InvoiceRenderer interface {
	RenderInvoiceHTML(o *order.Order) ([]byte, error)
	GenerateInvoice(o *order.Order) (*bytes.Buffer, error)
}

// InvoiceHandler handles invoice-related endpoints
type InvoiceHandler struct {
	orderService *order.Service
	renderer     InvoiceRenderer
	logger       *logrus.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(orderService *order.Service, renderer InvoiceRenderer, logger *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		orderService: orderService,
		renderer:     renderer,
		logger:       logger,
	}
}

// GetInvoices handles GET /invoices?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	invoices, err := h.orderService.ListInvoices(c.Request.Context(), id, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoices retrieved successfully",
		"data":    invoices,
	})
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice retrieved successfully",
		"data":    invoice,
	})
}

// DownloadInvoice handles GET /invoices/:id/pdf. The store's PDF is passed
// through; ?source=local renders it here instead.
func (h *InvoiceHandler) DownloadInvoice(c *gin.Context) {
	if c.Query("source") == "local" {
		h.renderLocalPDF(c)
		return
	}

	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	invoicePDF, err := h.orderService.DownloadInvoicePDF(c.Request.Context(), id, orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", invoicePDF.Filename))
	c.Header("Content-Length", strconv.Itoa(len(invoicePDF.Data)))
	c.Data(http.StatusOK, invoicePDF.ContentType, invoicePDF.Data)
}

// PrintInvoice handles GET /invoices/:id/print
func (h *InvoiceHandler) PrintInvoice(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	page, err := h.renderer.RenderInvoiceHTML(invoice)
	if err != nil {
		h.logger.WithField("order_id", invoice.ID).WithError(err).Error("Failed to render invoice")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *InvoiceHandler) renderLocalPDF(c *gin.Context) {
	invoice, ok := h.loadInvoice(c)
	if !ok {
		return
	}

	pdfBuffer, err := h.renderer.GenerateInvoice(invoice)
	if err != nil {
		h.logger.WithField("order_id", invoice.ID).WithError(err).Error("Failed to generate invoice PDF")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate invoice",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoice_%d.pdf\"", invoice.ID))
	c.Header("Content-Length", strconv.Itoa(pdfBuffer.Len()))
	c.Data(http.StatusOK, "application/pdf", pdfBuffer.Bytes())
}

func (h *InvoiceHandler) loadInvoice(c *gin.Context) (*order.Order, bool) {
	id, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}

	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return nil, false
	}

	invoice, err := h.orderService.GetInvoice(c.Request.Context(), id, orderID)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return invoice, true
}
