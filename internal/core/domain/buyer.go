package domain

import (
	"fmt"
	"strings"
)

// BuyerInfo - данные покупателя, которые записываются в участок
// при резервировании или покупке.
type BuyerInfo struct {
	Firstname          string `json:"firstname"`
	Lastname           string `json:"lastname"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Country            string `json:"country"`
	ResidentialAddress string `json:"residential_address"`
	Agent              string `json:"agent"`
	Remarks            string `json:"remarks"`
}

// FieldError - ошибка валидации одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError объединяет все ошибки полей одной проверки.
// Валидация "все или ничего": любое невалидное поле блокирует операцию
// до каких-либо записей.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return "buyer validation failed: " + strings.Join(parts, "; ")
}

// Validate проверяет обязательные поля покупателя.
// Возвращает nil, если все поля заполнены и корректны.
func (b BuyerInfo) Validate() error {
	var fields []FieldError

	if strings.TrimSpace(b.Firstname) == "" {
		fields = append(fields, FieldError{Field: "firstname", Message: "first name is required"})
	}
	if strings.TrimSpace(b.Lastname) == "" {
		fields = append(fields, FieldError{Field: "lastname", Message: "last name is required"})
	}
	if !validEmail(b.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "a valid email is required"})
	}
	if !validPhone(b.Phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "phone must be 10 digits"})
	}
	if strings.TrimSpace(b.Country) == "" {
		fields = append(fields, FieldError{Field: "country", Message: "country is required"})
	}
	if strings.TrimSpace(b.ResidentialAddress) == "" {
		fields = append(fields, FieldError{Field: "residential_address", Message: "residential address is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domainPart := email[at+1:]
	return strings.Contains(domainPart, ".") && !strings.ContainsAny(email, " \t")
}

// validPhone: ровно 10 цифр (формат источника данных).
func validPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if len(phone) != 10 {
		return false
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
