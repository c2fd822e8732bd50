package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
)

// UIWidget is an interface for all UI widgets hosted by a UIPanel
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	setY(y float64)
	label() string
}

// SliderWrapper wraps a Slider to implement UIWidget
type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return s.H + 25 } // Slider height + label space
func (s *SliderWrapper) setY(y float64)     { s.Y = y }
func (s *SliderWrapper) label() string      { return fmt.Sprintf("%s: %.3g", s.Label, s.Value) }

// CheckboxWrapper wraps a Checkbox to implement UIWidget
type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + labelHeight + 5 }
func (c *CheckboxWrapper) setY(y float64)     { c.Y = y }
func (c *CheckboxWrapper) label() string      { return c.Label }

// ButtonWrapper wraps a Button to implement UIWidget. The button draws its
// own label.
type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 { return b.Height + 10 }
func (b *ButtonWrapper) setY(y float64)     { b.Y = y - labelHeight }
func (b *ButtonWrapper) label() string      { return "" }

// UIPanel manages a collection of UI widgets in a scrollable panel
type UIPanel struct {
	X, Y          float64 // Panel position
	Width, Height float64 // Panel dimensions
	Title         string
	Widgets       []UIWidget
	ScrollOffset  float64 // Current scroll position
	Hidden        bool

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
}

// PanelSection groups the widgets added between AddSection and EndSection
type PanelSection struct {
	Title      string
	StartIndex int // Widget index where this section starts
	EndIndex   int // Widget index where this section ends (exclusive)
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       "Parameters",
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection adds a section header
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

// add places w at its unscrolled position. Widgets added outside a section
// get an untitled one.
func (p *UIPanel) add(w UIWidget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	p.Widgets = append(p.Widgets, w)
	p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	slider := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.add(&SliderWrapper{slider})
	return slider
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	checkbox := NewCheckbox(p.X+10, 0, label, value)
	p.add(&CheckboxWrapper{checkbox})
	return checkbox
}

// AddButton adds a full width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	button := NewButton(p.X+10, 0, p.Width-20, 22, label, onClick)
	p.add(&ButtonWrapper{button})
	return button
}

// layout moves every widget to its place for the current scroll offset and
// returns the content height.
func (p *UIPanel) layout() float64 {
	currentY := p.Y + titleHeight - p.ScrollOffset
	for _, section := range p.sections {
		currentY += sectionHeight
		for _, w := range p.Widgets[section.StartIndex:section.EndIndex] {
			w.setY(currentY + labelHeight)
			currentY += w.GetHeight()
		}
	}
	return currentY + p.ScrollOffset - p.Y
}

// Scroll moves the content by dy pixels, clamped to the content height.
func (p *UIPanel) Scroll(dy float64) {
	p.ScrollOffset += dy
	maxScroll := p.layout() - p.Height + 40
	if maxScroll < 0 {
		maxScroll = 0
	}
	p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
	p.layout()
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.Scroll(-dy * 20)
	}
	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// visible reports whether a row starting at y is inside the panel
func (p *UIPanel) visible(y float64) bool {
	return y >= p.Y+titleHeight-labelHeight && y <= p.Y+p.Height-labelHeight
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	currentY := p.Y + titleHeight - p.ScrollOffset
	for _, section := range p.sections {
		if section.Title != "" && p.visible(currentY) {
			vector.FillRect(screen,
				float32(p.X+5), float32(currentY),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(currentY+2))
		}
		currentY += sectionHeight

		for _, widget := range p.Widgets[section.StartIndex:section.EndIndex] {
			if p.visible(currentY) {
				if label := widget.label(); label != "" {
					ebitenutil.DebugPrintAt(screen, label, int(p.X+10), int(currentY-2))
				}
				widget.Draw(screen)
			}
			currentY += widget.GetHeight()
		}
	}
}
