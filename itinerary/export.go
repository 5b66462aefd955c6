package itinerary

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"travelbuddy/models"
	"travelbuddy/utils"
)

// GET /api/itineraries/:id/pdf
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, err := h.store.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	doc, err := renderPDF(it, h.shareURL(it))
	if err != nil {
		h.log.WithError(err).WithFields(utils.RequestFields(r)).WithField("id", it.ID.Hex()).Error("render itinerary pdf")
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=itinerary-"+it.ID.Hex()+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) shareURL(it *models.Itinerary) string {
	return fmt.Sprintf("%s/itinerary/%s", h.frontendURL, it.ID.Hex())
}

// daysTop is the first line below the QR code
const daysTop = 50

// startDays moves below the QR code, or stays put when the header already ran past it
func startDays(pdf *gofpdf.Fpdf) {
	if pdf.GetY() < daysTop {
		pdf.SetY(daysTop)
	}
}

// renderPDF lays out a printable copy of it with a QR code linking back to link
func renderPDF(it *models.Itinerary, link string) ([]byte, error) {
	qrPNG, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(it.Title), false)
	pdf.AddPage()

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, link)

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(140, 9, tr(it.Title), "", "L", false)
	pdf.SetFont("Arial", "", 11)
	meta := []string{it.Location, it.TripLength, it.ExperienceType}
	if it.User != nil && it.User.Name != "" {
		meta = append(meta, "by "+it.User.Name)
	}
	pdf.MultiCell(140, 6, tr(strings.Join(meta, "  |  ")), "", "L", false)
	pdf.Ln(4)
	pdf.MultiCell(140, 5, tr(it.Description), "", "L", false)
	startDays(pdf)

	for _, day := range it.Days {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, fmt.Sprintf("Day %d", day.DayNumber), "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		for _, a := range day.Activities {
			pdf.SetFont("Arial", "B", 11)
			heading := a.Title
			if a.Time != "" {
				heading = a.Time + "  " + heading
			}
			pdf.MultiCell(0, 6, tr(heading), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 5, tr(a.Description), "", "L", false)
			if a.Location != "" {
				pdf.SetFont("Arial", "I", 9)
				pdf.MultiCell(0, 5, tr(a.Location), "", "L", false)
			}
			pdf.Ln(2)
		}

		pdf.SetFont("Arial", "", 10)
		for _, extra := range [][2]string{
			{"Accommodation", day.Accommodation},
			{"Meals", day.Meals},
			{"Notes", day.Notes},
		} {
			if extra[1] == "" {
				continue
			}
			pdf.MultiCell(0, 5, tr(extra[0]+": "+extra[1]), "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
