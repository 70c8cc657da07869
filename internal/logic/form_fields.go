package logic

import (
	"context"
	"fmt"

	"github.com/antonio-alexander/go-employee-manager/internal/data"
)

func validateFormFieldPartial(formFieldPartial data.FormFieldPartial) error {
	if formFieldPartial.Label != nil {
		if *formFieldPartial.Label == "" {
			return fmt.Errorf("%w: label can't be blank", data.ErrInvalidInput)
		}
		if len(*formFieldPartial.Label) > data.LabelLengthMax {
			return fmt.Errorf("%w: label can't exceed %d characters",
				data.ErrInvalidInput, data.LabelLengthMax)
		}
	}
	if formFieldPartial.FieldType != nil {
		if err := data.ValidateFieldType(*formFieldPartial.FieldType); err != nil {
			return err
		}
	}
	if formFieldPartial.Order != nil && *formFieldPartial.Order < 0 {
		return fmt.Errorf("%w: order can't be negative", data.ErrInvalidInput)
	}
	return nil
}

func (l *logic) FormFieldCreate(ctx context.Context, createdBy int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	if l.config.mutateDisabled {
		return nil, data.ErrMutateDisabled
	}
	if formFieldPartial.Label == nil || *formFieldPartial.Label == "" {
		return nil, fmt.Errorf("%w: label is required", data.ErrInvalidInput)
	}
	if err := validateFormFieldPartial(formFieldPartial); err != nil {
		return nil, err
	}
	formField, err := l.Sql.FormFieldCreate(ctx, createdBy, formFieldPartial)
	if err != nil {
		return nil, err
	}
	l.Debug(ctx, "user (%d) created form field (%d)", createdBy, formField.Id)
	return formField, nil
}

func (l *logic) FormFieldRead(ctx context.Context, userId, fieldId int64) (*data.FormField, error) {
	formField, err := l.Sql.FormFieldRead(ctx, fieldId)
	if err != nil {
		return nil, err
	}
	if formField.CreatedBy != userId {
		//fields belonging to someone else are indistinguishable from
		// missing ones
		return nil, data.ErrNotFound
	}
	return formField, nil
}

func (l *logic) FormFieldsSearch(ctx context.Context, createdBy int64) ([]*data.FormField, error) {
	return l.Sql.FormFieldsSearch(ctx, createdBy)
}

func (l *logic) FormFieldUpdate(ctx context.Context, userId, fieldId int64, formFieldPartial data.FormFieldPartial) (*data.FormField, error) {
	if l.config.mutateDisabled {
		return nil, data.ErrMutateDisabled
	}
	if err := validateFormFieldPartial(formFieldPartial); err != nil {
		return nil, err
	}
	if _, err := l.FormFieldRead(ctx, userId, fieldId); err != nil {
		return nil, err
	}
	formField, err := l.Sql.FormFieldUpdate(ctx, fieldId, formFieldPartial)
	if err != nil {
		return nil, err
	}
	l.Debug(ctx, "user (%d) updated form field (%d)", userId, fieldId)
	return formField, nil
}

func (l *logic) FormFieldDelete(ctx context.Context, userId, fieldId int64) error {
	if l.config.mutateDisabled {
		return data.ErrMutateDisabled
	}
	if _, err := l.FormFieldRead(ctx, userId, fieldId); err != nil {
		return err
	}
	if err := l.Sql.FormFieldDelete(ctx, fieldId); err != nil {
		return err
	}
	l.Debug(ctx, "user (%d) deleted form field (%d)", userId, fieldId)
	return nil
}

func (l *logic) FormFieldsReorder(ctx context.Context, createdBy int64, fieldIds []int64) error {
	if l.config.mutateDisabled {
		return data.ErrMutateDisabled
	}
	if len(fieldIds) == 0 {
		return fmt.Errorf("%w: field ids are required", data.ErrInvalidInput)
	}
	if err := l.Sql.FormFieldsReorder(ctx, createdBy, fieldIds); err != nil {
		return err
	}
	l.Debug(ctx, "user (%d) reordered %d form fields", createdBy, len(fieldIds))
	return nil
}
