package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/agrosuite/agrosync/internal/syncx"
)

func (a *App) tables() {
	for _, t := range syncx.Tables {
		fmt.Println(t)
	}
}

// promptRecord builds an empty record for the table and fills its payload
// fields interactively. Meta fields are left for the record service.
func (a *App) promptRecord(table string) (syncx.Record, error) {
	w := os.Stdout

	switch table {
	case syncx.TableCategories:
		rec := &syncx.Category{}
		var err error
		if rec.Name, err = GetSimpleText(a.reader, "Name", w); err != nil {
			return nil, err
		}
		direct, err := GetYesNo(a.reader, "Direct cost", w)
		if err != nil {
			return nil, err
		}
		if direct {
			rec.IsDirectCost = 1
		}
		return rec, nil

	case syncx.TableIncome:
		rec := &syncx.Income{}
		var err error
		if rec.Date, err = GetSimpleText(a.reader, "Date (YYYY-MM-DD)", w); err != nil {
			return nil, err
		}
		if rec.Description, err = GetSimpleText(a.reader, "Description", w); err != nil {
			return nil, err
		}
		if rec.Amount, err = GetAmount(a.reader, "Amount", w); err != nil {
			return nil, err
		}
		if rec.Source, err = GetSimpleText(a.reader, "Source", w); err != nil {
			return nil, err
		}
		return rec, nil

	case syncx.TableExpense:
		rec := &syncx.Expense{}
		var err error
		if rec.Date, err = GetSimpleText(a.reader, "Date (YYYY-MM-DD)", w); err != nil {
			return nil, err
		}
		if rec.CategoryID, err = GetSimpleText(a.reader, "Category id", w); err != nil {
			return nil, err
		}
		if rec.Description, err = GetSimpleText(a.reader, "Description", w); err != nil {
			return nil, err
		}
		if rec.Amount, err = GetAmount(a.reader, "Amount", w); err != nil {
			return nil, err
		}
		if rec.Vendor, err = GetSimpleText(a.reader, "Vendor", w); err != nil {
			return nil, err
		}
		unplanned, err := GetYesNo(a.reader, "Unplanned", w)
		if err != nil {
			return nil, err
		}
		if unplanned {
			rec.IsUnplanned = 1
		}
		return rec, nil

	case syncx.TableInventoryItems:
		rec := &syncx.InventoryItem{}
		var err error
		if rec.Name, err = GetSimpleText(a.reader, "Name", w); err != nil {
			return nil, err
		}
		if rec.Type, err = GetSimpleText(a.reader, "Type (FEED/INPUT/VACCINE)", w); err != nil {
			return nil, err
		}
		if rec.Unit, err = GetSimpleText(a.reader, "Unit (kg, l, doses...)", w); err != nil {
			return nil, err
		}
		if rec.MinLevel, err = GetAmount(a.reader, "Minimum level", w); err != nil {
			return nil, err
		}
		if rec.ExpiresAt, err = GetSimpleText(a.reader, "Expires at (YYYY-MM-DD, optional)", w); err != nil {
			return nil, err
		}
		return rec, nil

	case syncx.TableInventoryMovements:
		rec := &syncx.InventoryMovement{}
		var err error
		if rec.ItemID, err = GetSimpleText(a.reader, "Item id", w); err != nil {
			return nil, err
		}
		if rec.Date, err = GetSimpleText(a.reader, "Date (YYYY-MM-DD)", w); err != nil {
			return nil, err
		}
		if rec.MovementType, err = GetSimpleText(a.reader, "Movement (IN/OUT)", w); err != nil {
			return nil, err
		}
		if rec.Qty, err = GetAmount(a.reader, "Quantity", w); err != nil {
			return nil, err
		}
		if rec.CostTotal, err = GetAmount(a.reader, "Total cost", w); err != nil {
			return nil, err
		}
		if rec.Note, err = GetSimpleText(a.reader, "Note", w); err != nil {
			return nil, err
		}
		return rec, nil

	case syncx.TableCattle:
		rec := &syncx.Cattle{}
		var err error
		if rec.Tag, err = GetSimpleText(a.reader, "Tag", w); err != nil {
			return nil, err
		}
		if rec.BirthDate, err = GetSimpleText(a.reader, "Birth date (YYYY-MM-DD, optional)", w); err != nil {
			return nil, err
		}
		if rec.Notes, err = GetSimpleText(a.reader, "Notes", w); err != nil {
			return nil, err
		}
		return rec, nil

	case syncx.TableVaccinations:
		rec := &syncx.Vaccination{}
		var err error
		if rec.CattleID, err = GetSimpleText(a.reader, "Cattle id", w); err != nil {
			return nil, err
		}
		if rec.VaccineItemID, err = GetSimpleText(a.reader, "Vaccine item id", w); err != nil {
			return nil, err
		}
		if rec.Date, err = GetSimpleText(a.reader, "Date (YYYY-MM-DD)", w); err != nil {
			return nil, err
		}
		if rec.Dose, err = GetSimpleText(a.reader, "Dose", w); err != nil {
			return nil, err
		}
		if rec.Cost, err = GetAmount(a.reader, "Cost", w); err != nil {
			return nil, err
		}
		if rec.NextDueDate, err = GetSimpleText(a.reader, "Next due (YYYY-MM-DD, optional)", w); err != nil {
			return nil, err
		}
		return rec, nil
	}

	return nil, fmt.Errorf("unknown table: %s", table)
}

func (a *App) add(ctx context.Context, args []string) {
	if len(args) == 0 || !syncx.IsSyncTable(args[0]) {
		fmt.Println("Usage: add <table> ('tables' lists them)")
		return
	}

	rec, err := a.promptRecord(args[0])
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	if err := a.recordService.Create(ctx, rec); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("Added", rec.SyncMeta().ID)
}

func (a *App) list(ctx context.Context, args []string) {
	if len(args) == 0 || !syncx.IsSyncTable(args[0]) {
		fmt.Println("Usage: list <table> ('tables' lists them)")
		return
	}

	recs, err := a.recordService.ListActive(ctx, args[0])
	if err != nil {
		log.Println(err.Error())
		return
	}

	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			log.Println(err.Error())
			return
		}
		fmt.Println(string(data))
	}
	fmt.Printf("%d row(s)\n", len(recs))
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) < 2 || !syncx.IsSyncTable(args[0]) {
		fmt.Println("Usage: delete <table> <id>")
		return
	}

	if err := a.recordService.Delete(ctx, args[0], args[1]); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("Deleted", args[1])
}
