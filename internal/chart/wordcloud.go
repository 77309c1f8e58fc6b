package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font"

	"github.com/Zuo-Peng/whatsapp-chat-analyzer/internal/analysis"
)

const (
	cloudSize    = 500
	cloudMinFont = 10
	cloudMaxFont = 72
	cloudPadding = 2
)

var cloudPalette = []color.Color{steelBlue, green, orange, red, teal, grey}

// placement is one word laid out on the cloud canvas, centered at X, Y.
type placement struct {
	Word       string
	Size       float64
	X, Y, W, H float64
}

func (p placement) overlaps(o placement) bool {
	return math.Abs(p.X-o.X)*2 < p.W+o.W && math.Abs(p.Y-o.Y)*2 < p.H+o.H
}

func (p placement) inside(w, h float64) bool {
	return p.X-p.W/2 >= 0 && p.X+p.W/2 <= w && p.Y-p.H/2 >= 0 && p.Y+p.H/2 <= h
}

// measureFunc returns the rendered width and height of word at size points.
type measureFunc func(word string, size float64) (w, h float64)

// layoutCloud places words, most frequent first, along an Archimedean
// spiral from the canvas center. Words that find no free spot are left out.
func layoutCloud(words []analysis.WordCount, w, h float64, measure measureFunc) []placement {
	if len(words) == 0 {
		return nil
	}
	maxCount := words[0].Count
	for _, wc := range words {
		maxCount = max(maxCount, wc.Count)
	}

	var placed []placement
	maxRadius := math.Hypot(w, h) / 2
	for _, wc := range words {
		size := cloudMinFont + (cloudMaxFont-cloudMinFont)*float64(wc.Count)/float64(maxCount)
		bw, bh := measure(wc.Word, size)
		p := placement{Word: wc.Word, Size: size, W: bw + 2*cloudPadding, H: bh + 2*cloudPadding}
		for t := 0.0; ; t += 0.1 {
			r := 2 * t
			if r > maxRadius {
				break
			}
			p.X = w/2 + r*math.Cos(t)
			p.Y = h/2 + r*math.Sin(t)*h/w
			if !p.inside(w, h) {
				continue
			}
			free := true
			for _, o := range placed {
				if p.overlaps(o) {
					free = false
					break
				}
			}
			if free {
				placed = append(placed, p)
				break
			}
		}
	}
	return placed
}

// WordCloud draws the words sized by count on a white square canvas.
func WordCloud(words []analysis.WordCount) ([]byte, error) {
	if len(words) == 0 {
		return nil, ErrNoData
	}
	f, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	faces := make(map[float64]font.Face)
	face := func(size float64) font.Face {
		if fc, ok := faces[size]; ok {
			return fc
		}
		fc := truetype.NewFace(f, &truetype.Options{Size: size})
		faces[size] = fc
		return fc
	}

	dc := gg.NewContext(cloudSize, cloudSize)
	dc.SetColor(color.White)
	dc.Clear()

	placed := layoutCloud(words, cloudSize, cloudSize, func(word string, size float64) (float64, float64) {
		dc.SetFontFace(face(size))
		return dc.MeasureString(word)
	})
	if len(placed) == 0 {
		return nil, ErrNoData
	}
	for i, p := range placed {
		dc.SetFontFace(face(p.Size))
		dc.SetColor(cloudPalette[i%len(cloudPalette)])
		dc.DrawStringAnchored(p.Word, p.X, p.Y, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
