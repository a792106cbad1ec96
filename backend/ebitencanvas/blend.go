package ebitencanvas

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/rendercore"
)

var (
	blendMultiply = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
		BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	blendScreen = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	blendModulate = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorZero,
		BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
		BlendFactorDestinationRGB:   ebiten.BlendFactorSourceColor,
		BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	blendDarken = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationMin,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
	blendLighten = ebiten.Blend{
		BlendFactorSourceRGB:        ebiten.BlendFactorOne,
		BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
		BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
		BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
		BlendOperationRGB:           ebiten.BlendOperationMax,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
)

// ebitenBlend returns the ebiten.Blend used to composite a layer with mode.
// Porter-Duff modes map exactly; separable modes without a fixed-function
// equivalent fall back to source-over.
func ebitenBlend(mode rendercore.BlendMode) ebiten.Blend {
	switch mode {
	case rendercore.BlendClear:
		return ebiten.BlendClear
	case rendercore.BlendSrc:
		return ebiten.BlendCopy
	case rendercore.BlendDst:
		return ebiten.BlendDestination
	case rendercore.BlendSrcOver:
		return ebiten.BlendSourceOver
	case rendercore.BlendDstOver:
		return ebiten.BlendDestinationOver
	case rendercore.BlendSrcIn:
		return ebiten.BlendSourceIn
	case rendercore.BlendDstIn:
		return ebiten.BlendDestinationIn
	case rendercore.BlendSrcOut:
		return ebiten.BlendSourceOut
	case rendercore.BlendDstOut:
		return ebiten.BlendDestinationOut
	case rendercore.BlendSrcATop:
		return ebiten.BlendSourceAtop
	case rendercore.BlendDstATop:
		return ebiten.BlendDestinationAtop
	case rendercore.BlendXor:
		return ebiten.BlendXor
	case rendercore.BlendPlus:
		return ebiten.BlendLighter
	case rendercore.BlendModulate:
		return blendModulate
	case rendercore.BlendScreen:
		return blendScreen
	case rendercore.BlendDarken:
		return blendDarken
	case rendercore.BlendLighten:
		return blendLighten
	case rendercore.BlendMultiply:
		return blendMultiply
	default:
		return ebiten.BlendSourceOver
	}
}
