package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mgichure/EMIS/internal/client/models"
)

func (a *App) AttachDocument(ctx context.Context, applicationID string) error {
	name, err := GetSimpleText(a.reader, "Document name", os.Stdout)
	if err != nil {
		return err
	}
	docType, err := GetSimpleText(a.reader, fmt.Sprintf("Type %v", models.DocumentTypes), os.Stdout)
	if err != nil {
		return err
	}
	path, err := GetSimpleText(a.reader, "File path", os.Stdout)
	if err != nil {
		return err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		printFn("Could not read file:", err.Error())
		return err
	}

	doc := &models.Document{
		ApplicationID: applicationID,
		Name:          name,
		Type:          models.DocumentType(docType),
		Payload:       payload,
	}
	if err := a.documents.Attach(ctx, doc); err != nil {
		printFn("Could not attach document:", err.Error())
		return err
	}
	printFn("Attached document", doc.ID)
	return nil
}

func (a *App) ListDocuments(ctx context.Context, applicationID string) error {
	list, err := a.documents.ListByApplication(ctx, applicationID)
	if err != nil {
		printFn("Error:", err.Error())
		return err
	}
	if len(list) == 0 {
		printFn("No documents attached")
		return nil
	}
	for _, d := range list {
		synced := "pending"
		if d.Synced {
			synced = "synced"
		}
		printFn(fmt.Sprintf("%s  %-22s %-18s %6d bytes  %s", d.ID, d.Name, d.Type, d.Size, synced))
	}
	return nil
}
