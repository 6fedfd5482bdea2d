package ui

import (
	"image"
	"strconv"
	"strings"

	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"zhuyin/cmd/ibus-setup-zhuyin/internal/theme"
	"zhuyin/internal/config"
)

type field struct {
	opt   config.Option
	check widget.Bool
	edit  widget.Editor
}

// Preferences edits the engine options of one configuration file. The
// running engine picks saved changes up by itself.
type Preferences struct {
	theme  *theme.Theme
	path   string
	cfg    *config.Config
	fields []*field

	list      widget.List
	saveBtn   widget.Clickable
	revertBtn widget.Clickable

	status    string
	statusErr bool
}

// NewPreferences loads path and fills the form from it.
func NewPreferences(t *theme.Theme, path string) (*Preferences, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	p := &Preferences{
		theme: t,
		path:  path,
		list:  widget.List{List: layout.List{Axis: layout.Vertical}},
	}
	for _, o := range config.Options() {
		f := &field{opt: o}
		f.edit.SingleLine = true
		p.fields = append(p.fields, f)
	}
	p.fill(cfg)
	return p, nil
}

func (p *Preferences) fill(cfg *config.Config) {
	p.cfg = cfg
	for _, f := range p.fields {
		v, _ := cfg.Engine.Get(f.opt.Name)
		if f.opt.Kind == config.BoolOption {
			f.check.Value = v == "true"
		} else {
			f.edit.SetText(v)
		}
	}
}

// Apply returns a copy of the loaded configuration with the form's values,
// validated.
func (p *Preferences) Apply() (*config.Config, error) {
	cfg := p.cfg.Clone()
	for _, f := range p.fields {
		value := strings.TrimSpace(f.edit.Text())
		if f.opt.Kind == config.BoolOption {
			value = strconv.FormatBool(f.check.Value)
		}
		if err := cfg.Engine.Set(f.opt.Name, value); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the form to the configuration file.
func (p *Preferences) Save() error {
	cfg, err := p.Apply()
	if err == nil {
		err = config.SaveConfig(cfg, p.path)
	}
	if err != nil {
		p.status, p.statusErr = err.Error(), true
		return err
	}
	p.cfg = cfg
	p.status, p.statusErr = "Saved", false
	return nil
}

// Revert reloads the file and discards unsaved edits.
func (p *Preferences) Revert() error {
	cfg, err := config.Load(p.path)
	if err != nil {
		p.status, p.statusErr = err.Error(), true
		return err
	}
	p.fill(cfg)
	p.status, p.statusErr = "", false
	return nil
}

// Status returns the last save or revert message.
func (p *Preferences) Status() (string, bool) { return p.status, p.statusErr }

// Layout renders the form.
func (p *Preferences) Layout(gtx layout.Context) layout.Dimensions {
	if p.saveBtn.Clicked(gtx) {
		p.Save()
	}
	if p.revertBtn.Clicked(gtx) {
		p.Revert()
	}

	paint.Fill(gtx.Ops, p.theme.Palette.Background)

	return layout.UniformInset(p.theme.Config.Padding).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				h := material.H6(p.theme.Theme, "Zhuyin Preferences")
				h.Color = p.theme.Palette.Text
				h.TextSize = p.theme.Config.FontTitle
				return h.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Height: p.theme.Config.Padding}.Layout),
			layout.Flexed(1, p.layoutFields),
			layout.Rigid(layout.Spacer{Height: p.theme.Config.Spacing}.Layout),
			layout.Rigid(p.layoutStatus),
			layout.Rigid(layout.Spacer{Height: p.theme.Config.Spacing}.Layout),
			layout.Rigid(p.layoutButtons),
		)
	})
}

func (p *Preferences) layoutFields(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	rect := clip.UniformRRect(image.Rect(0, 0, size.X, size.Y), gtx.Dp(p.theme.Config.CornerRadius)).Op(gtx.Ops)
	paint.FillShape(gtx.Ops, p.theme.Palette.Surface, rect)

	return material.List(p.theme.Theme, &p.list).Layout(gtx, len(p.fields), func(gtx layout.Context, i int) layout.Dimensions {
		return layout.UniformInset(p.theme.Config.Spacing).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return p.layoutField(gtx, p.fields[i])
		})
	})
}

func (p *Preferences) layoutField(gtx layout.Context, f *field) layout.Dimensions {
	if f.opt.Kind == config.BoolOption {
		cb := material.CheckBox(p.theme.Theme, &f.check, f.opt.Description)
		cb.Color = p.theme.Palette.Text
		cb.TextSize = p.theme.Config.FontBody
		return cb.Layout(gtx)
	}

	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			l := material.Body1(p.theme.Theme, f.opt.Description)
			l.Color = p.theme.Palette.Text
			l.TextSize = p.theme.Config.FontBody
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Dp(140)
			gtx.Constraints.Max.X = gtx.Dp(140)
			border := widget.Border{
				Color:        p.theme.Palette.Border,
				CornerRadius: p.theme.Config.CornerRadius,
				Width:        unit.Dp(1),
			}
			return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.UniformInset(unit.Dp(6)).Layout(gtx, material.Editor(p.theme.Theme, &f.edit, f.opt.Name).Layout)
			})
		}),
	)
}

func (p *Preferences) layoutStatus(gtx layout.Context) layout.Dimensions {
	if p.status == "" {
		return layout.Dimensions{}
	}
	l := material.Caption(p.theme.Theme, p.status)
	l.TextSize = p.theme.Config.FontCaption
	l.Color = p.theme.Palette.Success
	if p.statusErr {
		l.Color = p.theme.Palette.Error
	}
	return l.Layout(gtx)
}

func (p *Preferences) layoutButtons(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceStart}.Layout(gtx,
		layout.Rigid(material.Button(p.theme.Theme, &p.revertBtn, "Revert").Layout),
		layout.Rigid(layout.Spacer{Width: p.theme.Config.Spacing}.Layout),
		layout.Rigid(material.Button(p.theme.Theme, &p.saveBtn, "Save").Layout),
	)
}
