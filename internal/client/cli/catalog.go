package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mgichure/EMIS/internal/client/models"
)

func (a *App) NewIntake(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Intake name", os.Stdout)
	if err != nil {
		return err
	}
	term, err := GetSimpleText(a.reader, "Term (optional)", os.Stdout)
	if err != nil {
		return err
	}
	capacityRaw, err := GetSimpleText(a.reader, "Capacity (optional)", os.Stdout)
	if err != nil {
		return err
	}
	capacity := 0
	if capacityRaw != "" {
		capacity, err = strconv.Atoi(capacityRaw)
		if err != nil {
			printFn("Capacity must be a number")
			return nil
		}
	}
	openRaw, err := GetSimpleText(a.reader, "Open for applications? [y/N]", os.Stdout)
	if err != nil {
		return err
	}

	in := &models.Intake{
		Name:     name,
		Term:     term,
		Capacity: capacity,
		Open:     strings.EqualFold(openRaw, "y") || strings.EqualFold(openRaw, "yes"),
	}
	if err := a.catalog.SaveIntake(ctx, in); err != nil {
		printFn("Could not save intake:", err.Error())
		return err
	}
	printFn("Saved intake", in.ID)
	return nil
}

func (a *App) ListIntakes(ctx context.Context) error {
	list, err := a.catalog.ListIntakes(ctx, false)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	for _, in := range list {
		state := "closed"
		if in.Open {
			state = "open"
		}
		printFn(fmt.Sprintf("%s  %-24s %-10s %s", in.ID, in.Name, in.Term, state))
	}
	return nil
}

func (a *App) NewProgram(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Program name", os.Stdout)
	if err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "Code (optional)", os.Stdout)
	if err != nil {
		return err
	}
	department, err := GetSimpleText(a.reader, "Department (optional)", os.Stdout)
	if err != nil {
		return err
	}

	p := &models.Program{Name: name, Code: code, Department: department}
	if err := a.catalog.SaveProgram(ctx, p); err != nil {
		printFn("Could not save program:", err.Error())
		return err
	}
	printFn("Saved program", p.ID)
	return nil
}

func (a *App) ListPrograms(ctx context.Context) error {
	list, err := a.catalog.ListPrograms(ctx)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	for _, p := range list {
		printFn(fmt.Sprintf("%s  %-8s %-28s %s", p.ID, p.Code, p.Name, p.Department))
	}
	return nil
}
