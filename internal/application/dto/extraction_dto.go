package dto

// ExtractedReceipt forma común que devuelven los extractores de archivos (PDF, CSV, imagen).
// Es la misma que CreateReceiptRequest; los campos de cabecera pueden venir vacíos y
// completarse con los del formulario.
type ExtractedReceipt = CreateReceiptRequest
