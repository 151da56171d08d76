package geometry

import "math"

// ============================================================
// Constraints
// ============================================================

const (
	MinSize       = 50.0
	MaxSize       = 400.0
	DefaultSize   = 100.0
	DefaultOffset = 50.0
)

// Размеры холста: с фотографией комнаты и без неё.
var (
	RoomCanvas  = Bounds{Width: 800, Height: 600}
	EmptyCanvas = Bounds{Width: 600, Height: 400}
)

// ============================================================
// Value types
// ============================================================

// Transform — положение, размер и поворот элемента в координатах холста.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotationDegrees"`
}

// Bounds — родительская область с началом в (0, 0).
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Default возвращает стартовую позицию нового элемента.
func Default() Transform {
	return Transform{
		X:      DefaultOffset,
		Y:      DefaultOffset,
		Width:  DefaultSize,
		Height: DefaultSize,
	}
}

// ============================================================
// Move
// ============================================================

// Move сдвигает элемент и прижимает его к границам родителя.
func Move(t Transform, dx, dy float64, parent Bounds) Transform {
	t.X = clampAxis(t.X+dx, t.Width, parent.Width)
	t.Y = clampAxis(t.Y+dy, t.Height, parent.Height)
	return t
}

// MoveTo ставит элемент в абсолютную позицию (как onStop у перетаскивания).
func MoveTo(t Transform, x, y float64, parent Bounds) Transform {
	return Move(t, x-t.X, y-t.Y, parent)
}

// Clamp возвращает элемент внутрь родителя без сдвига.
func Clamp(t Transform, parent Bounds) Transform {
	return Move(t, 0, 0, parent)
}

// A box larger than its parent is pinned to the origin.
func clampAxis(pos, size, limit float64) float64 {
	upper := limit - size
	if upper < 0 {
		upper = 0
	}
	return math.Min(math.Max(pos, 0), upper)
}

// ============================================================
// Resize
// ============================================================

// Resizer хранит пропорции, зафиксированные в начале изменения размера.
type Resizer struct {
	start Transform
	ratio float64
}

// BeginResize фиксирует соотношение сторон на момент начала перетаскивания.
func BeginResize(t Transform) Resizer {
	ratio := 1.0
	if t.Width > 0 && t.Height > 0 {
		ratio = t.Width / t.Height
	}
	return Resizer{start: t, ratio: ratio}
}

// To применяет новый размер относительно начального состояния.
func (r Resizer) To(width, height float64, lockAspect bool) Transform {
	t := r.start
	if !lockAspect {
		t.Width = clampSize(width)
		t.Height = clampSize(height)
		return t
	}

	// Ведущее измерение — то, что изменилось сильнее относительно старта.
	w := width
	if relChange(height, r.start.Height) > relChange(width, r.start.Width) {
		w = height * r.ratio
	}

	lo := math.Max(MinSize, MinSize*r.ratio)
	hi := math.Min(MaxSize, MaxSize*r.ratio)
	if lo > hi {
		// Ratio outside [1/8, 8] cannot satisfy both bounds.
		t.Width = clampSize(w)
		t.Height = clampSize(w / r.ratio)
		return t
	}

	t.Width = math.Min(math.Max(w, lo), hi)
	t.Height = t.Width / r.ratio
	return t
}

// Resize — изменение размера за одно действие.
func Resize(t Transform, width, height float64, lockAspect bool) Transform {
	return BeginResize(t).To(width, height, lockAspect)
}

func relChange(v, base float64) float64 {
	if base == 0 {
		return math.Abs(v)
	}
	return math.Abs(v-base) / base
}

func clampSize(v float64) float64 {
	return math.Min(math.Max(v, MinSize), MaxSize)
}

// ============================================================
// Rotate
// ============================================================

// Rotate прибавляет delta градусов и нормализует угол в [0, 360).
func Rotate(t Transform, delta float64) Transform {
	t.Rotation = NormalizeRotation(t.Rotation + delta)
	return t
}

func NormalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -0 и 360 после Mod дают одно и то же положение.
	if deg == 0 || deg == 360 {
		return 0
	}
	return deg
}
