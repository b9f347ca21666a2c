package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

// Generates sample uploads so the attachment flow can be exercised by
// hand: a PDF, a PNG and an ELF-headed binary that the server must
// refuse.
func main() {
	outputDir := "./uploads"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		panic(fmt.Sprintf("could not create output dir: %v", err))
	}

	fmt.Println("Generating sample uploads...")

	genPDF(filepath.Join(outputDir, "report.pdf"))
	genImage(filepath.Join(outputDir, "screenshot.png"))
	genBinary(filepath.Join(outputDir, "payload.bin"))

	fmt.Println("\nDone. Point UPLOAD_DIR at", outputDir, "and send the refs in chat.")
}

func genPDF(path string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(40, 20, "Quarterly report")
	pdf.Ln(20)

	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, "Sample document shared as a chat attachment.", "", "", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		fmt.Printf("PDF error: %v\n", err)
	} else {
		fmt.Printf("PDF generated: %s\n", path)
	}
}

func genImage(path string) {
	width, height := 800, 600
	img := image.NewRGBA(image.Rectangle{image.Point{0, 0}, image.Point{width, height}})

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{uint8(x % 255), 100, 200, 0xff})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		fmt.Printf("Image error: %v\n", err)
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fmt.Printf("Image error: %v\n", err)
	} else {
		fmt.Printf("Image generated: %s\n", path)
	}
}

// genBinary writes a file with an ELF magic number. The attachment vet
// must reject it.
func genBinary(path string) {
	payload := append([]byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}, make([]byte, 56)...)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		fmt.Printf("Binary error: %v\n", err)
	} else {
		fmt.Printf("Binary generated: %s\n", path)
	}
}
