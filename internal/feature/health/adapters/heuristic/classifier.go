// Package heuristic classifies seedling photos from colour statistics alone.
// It needs no external service and is the fallback for every other classifier.
package heuristic

import (
	"context"
	"image"
	"math"

	"sibtech_backend/internal/feature/health/domain/entity"
	"sibtech_backend/internal/feature/health/domain/raster"
	"sibtech_backend/internal/feature/health/usecase"
)

// Source names this classifier in diagnoses.
const Source = "heuristic"

// Stats are the colour features the rules look at.
type Stats struct {
	Mean        float64 // average of the R, G and B channel means, 0..255
	YellowRatio float64 // share of pixels with R > G >= B
	GreenRatio  float64 // share of pixels with G > R+10 and G > B+10
}

// Classifier implements usecase.HealthClassifier.
type Classifier struct {
	size int
}

var _ usecase.HealthClassifier = (*Classifier)(nil)

// New returns a classifier working on raster.DefaultSize squares.
func New() *Classifier {
	return &Classifier{size: raster.DefaultSize}
}

// Classify never fails.
func (c *Classifier) Classify(_ context.Context, img image.Image) (entity.Diagnosis, error) {
	return Decide(Measure(raster.Resize(img, c.size))), nil
}

// Measure computes Stats over every pixel of img.
func Measure(img *image.NRGBA) Stats {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return Stats{}
	}
	var sumR, sumG, sumB float64
	var yellow, green int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			r, g, bl := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
			sumR += float64(r)
			sumG += float64(g)
			sumB += float64(bl)
			if r > g && g >= bl {
				yellow++
			}
			if g > r+10 && g > bl+10 {
				green++
			}
		}
	}
	total := float64(n)
	return Stats{
		Mean:        (sumR/total + sumG/total + sumB/total) / 3,
		YellowRatio: float64(yellow) / total,
		GreenRatio:  float64(green) / total,
	}
}

// Decide applies the rules in order; the first match wins.
func Decide(s Stats) entity.Diagnosis {
	d := entity.Diagnosis{Source: Source}
	switch {
	case s.GreenRatio > 0.12 && s.Mean > 80:
		d.Label = entity.LabelHealthy
		d.Confidence = capped(50+s.GreenRatio*200, 99)
	case s.YellowRatio > 0.12 || s.Mean < 60:
		if s.YellowRatio > 0.25 {
			d.Label = entity.LabelDiseasedPest
			d.Confidence = capped(40+s.YellowRatio*200, 95)
		} else {
			d.Label = entity.LabelNeedsAttention
			d.Confidence = capped(30+(0.2-s.Mean/255)*200, 90)
		}
	default:
		d.Label = entity.LabelUncertain
		d.Confidence = 50
	}
	return d
}

// capped truncates v, applies the rule's ceiling, then clamps to [0,100].
func capped(v float64, ceiling int) int {
	n := int(math.Trunc(v))
	if n > ceiling {
		n = ceiling
	}
	return entity.ClampPercent(float64(n))
}
