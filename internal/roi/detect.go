package roi

import (
	"bytes"
	"image"
	"math"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

const (
	maxAnalysisDim = 512
	blockSize      = 16
	varPercentile  = 0.70
	minRegionBlocks = 6
	marginPct      = 0.03
	minSpanFrac    = 0.2
	confFullBlocks = 120.0
)

// Detect finds the highest-texture contiguous region of the image: block
// variance of pixel intensity, thresholded at the 70th percentile, largest
// 4-connected region kept. Every failure path (undecodable bytes, flat
// image, degenerate bbox) resolves to DefaultROI; Detect never errors.
func Detect(raw []byte) ROI {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil || img == nil {
		return DefaultROI()
	}
	return DetectImage(img)
}

// DetectImage is Detect for an already-decoded image.
func DetectImage(img image.Image) ROI {
	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()
	if origW < 1 || origH < 1 {
		return DefaultROI()
	}

	small := downscale(img, maxAnalysisDim)
	sw := small.Bounds().Dx()
	sh := small.Bounds().Dy()

	gray := intensities(small)

	hb := sh / blockSize
	wb := sw / blockSize
	if hb < 1 {
		hb = 1
	}
	if wb < 1 {
		wb = 1
	}
	varMap := blockVariances(gray, sw, sh, hb, wb)

	thr := percentile(varMap, varPercentile)
	mask := make([]bool, len(varMap))
	masked := 0
	for i, v := range varMap {
		if v > thr {
			mask[i] = true
			masked++
		}
	}
	if masked == 0 {
		return DefaultROI()
	}

	r0, c0, r1, c1, count := largestRegion(mask, hb, wb)
	if count < minRegionBlocks {
		return DefaultROI()
	}

	// Block grid -> downscaled pixels, plus a small margin.
	x0s := float64(c0 * blockSize)
	y0s := float64(r0 * blockSize)
	x1s := float64((c1 + 1) * blockSize)
	y1s := float64((r1 + 1) * blockSize)

	mx := math.Floor(float64(sw) * marginPct)
	my := math.Floor(float64(sh) * marginPct)
	x0s = math.Max(0, x0s-mx)
	y0s = math.Max(0, y0s-my)
	x1s = math.Min(float64(sw), x1s+mx)
	y1s = math.Min(float64(sh), y1s+my)

	// Downscaled pixels -> original pixels -> normalized.
	scaleX := float64(origW) / float64(sw)
	scaleY := float64(origH) / float64(sh)
	out := ROI{
		Version:    Version,
		X0:         clamp01(x0s * scaleX / float64(origW)),
		Y0:         clamp01(y0s * scaleY / float64(origH)),
		X1:         clamp01(x1s * scaleX / float64(origW)),
		Y1:         clamp01(y1s * scaleY / float64(origH)),
		Method:     MethodTextureVariance,
		Confidence: math.Min(1, float64(count)/confFullBlocks),
	}

	// A sliver crop is worse than no crop.
	if out.SpanX() < minSpanFrac || out.SpanY() < minSpanFrac {
		return DefaultROI()
	}
	return out
}

// downscale caps the longer dimension at maxDim, preserving aspect ratio.
// Smaller images pass through untouched.
func downscale(img image.Image, maxDim int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	nw, nh := w, h
	if longer > maxDim {
		ratio := float64(maxDim) / float64(longer)
		nw = int(math.Max(1, float64(w)*ratio))
		nh = int(math.Max(1, float64(h)*ratio))
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}

// intensities converts to single-channel luma, row-major.
func intensities(img *image.RGBA) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			r := float64(img.Pix[i])
			g := float64(img.Pix[i+1])
			bb := float64(img.Pix[i+2])
			out[y*w+x] = 0.299*r + 0.587*g + 0.114*bb
		}
	}
	return out
}

// blockVariances computes per-block intensity variance over an hb×wb grid.
// Pixels past the last full block are ignored, as in the reference heuristic.
func blockVariances(gray []float64, w, h, hb, wb int) []float64 {
	out := make([]float64, hb*wb)
	for br := 0; br < hb; br++ {
		for bc := 0; bc < wb; bc++ {
			var sum, sumSq float64
			n := 0
			for y := br * blockSize; y < (br+1)*blockSize && y < h; y++ {
				for x := bc * blockSize; x < (bc+1)*blockSize && x < w; x++ {
					v := gray[y*w+x]
					sum += v
					sumSq += v * v
					n++
				}
			}
			if n == 0 {
				continue
			}
			mean := sum / float64(n)
			out[br*wb+bc] = sumSq/float64(n) - mean*mean
		}
	}
	return out
}

// percentile with linear interpolation between ranks.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// largestRegion flood-fills the mask over a 4-connected grid graph and
// returns the bounding box and size of the biggest region.
func largestRegion(mask []bool, hb, wb int) (r0, c0, r1, c1, count int) {
	visited := make([]bool, len(mask))
	bestCount := 0
	for sr := 0; sr < hb; sr++ {
		for sc := 0; sc < wb; sc++ {
			if !mask[sr*wb+sc] || visited[sr*wb+sc] {
				continue
			}
			stack := [][2]int{{sr, sc}}
			visited[sr*wb+sc] = true
			minR, maxR, minC, maxC, n := sr, sr, sc, sc, 0
			for len(stack) > 0 {
				cell := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				cr, cc := cell[0], cell[1]
				n++
				if cr < minR {
					minR = cr
				}
				if cr > maxR {
					maxR = cr
				}
				if cc < minC {
					minC = cc
				}
				if cc > maxC {
					maxC = cc
				}
				for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
					nr, nc := cr+d[0], cc+d[1]
					if nr < 0 || nr >= hb || nc < 0 || nc >= wb {
						continue
					}
					if mask[nr*wb+nc] && !visited[nr*wb+nc] {
						visited[nr*wb+nc] = true
						stack = append(stack, [2]int{nr, nc})
					}
				}
			}
			if n > bestCount {
				bestCount = n
				r0, c0, r1, c1 = minR, minC, maxR, maxC
			}
		}
	}
	return r0, c0, r1, c1, bestCount
}
