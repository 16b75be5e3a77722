package image

import "fmt"

// Small-family bounds (modify v2): each side within [minModifyDim,
// maxModifyDim] and at most one side may exceed modifyCoBound.
const (
	minModifyDim  = 128
	maxModifyDim  = 1024
	modifyCoBound = 512
)

// modifyV3Sizes is the discrete size family accepted by modify v3. A pair is
// valid in either orientation (90-degree rotation equivalence).
var modifyV3Sizes = [][2]int{
	{1024, 1024},
	{1024, 1344},
	{896, 1152},
	{832, 1216},
	{640, 1536},
}

// Upscale output bounds.
const (
	// MaxUpscalePixels is the upper bound on (width*scale)*(height*scale).
	MaxUpscalePixels = 4_194_304
	// MinUpscaleDim is the floor on each scaled output dimension.
	MinUpscaleDim = 512
)

// validateModifyV2 checks the small range-bounded size family.
func validateModifyV2(width, height int) error {
	if width < minModifyDim || width > maxModifyDim ||
		height < minModifyDim || height > maxModifyDim {
		return fmt.Errorf("image dimensions %dx%d out of range: each side must be within [%d, %d]",
			width, height, minModifyDim, maxModifyDim)
	}
	if width > modifyCoBound && height > modifyCoBound {
		return fmt.Errorf("image dimensions %dx%d invalid: at most one side may exceed %d",
			width, height, modifyCoBound)
	}
	return nil
}

// validateModifyV3 checks the discrete size family, accepting either
// orientation of each pair.
func validateModifyV3(width, height int) error {
	for _, size := range modifyV3Sizes {
		if (width == size[0] && height == size[1]) || (width == size[1] && height == size[0]) {
			return nil
		}
	}
	return fmt.Errorf("image dimensions %dx%d not supported: valid sizes are %v (either orientation)",
		width, height, formatSizes())
}

// validateUpscale bounds the scaled output: total pixels at most
// MaxUpscalePixels and each output dimension at least MinUpscaleDim.
func validateUpscale(width, height, scale int) error {
	if scale != 2 && scale != 4 {
		return fmt.Errorf("scale must be 2 or 4, got %d", scale)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image dimensions %dx%d invalid: width and height must be positive", width, height)
	}

	outW, outH := width*scale, height*scale
	if outW < MinUpscaleDim || outH < MinUpscaleDim {
		return fmt.Errorf("scaled output %dx%d too small: each dimension must be at least %d",
			outW, outH, MinUpscaleDim)
	}
	if outW*outH > MaxUpscalePixels {
		return fmt.Errorf("scaled output %dx%d exceeds %d pixels", outW, outH, MaxUpscalePixels)
	}
	return nil
}

func formatSizes() []string {
	out := make([]string, len(modifyV3Sizes))
	for i, size := range modifyV3Sizes {
		out[i] = fmt.Sprintf("%dx%d", size[0], size[1])
	}
	return out
}
