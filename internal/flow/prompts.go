package flow

import (
	"fmt"
	"strings"
)

// User-facing texts kept in Spanish, matching the bot this replaces.

func promptGreeting(firstName string) string {
	greeting := "¡Hola!"
	if firstName != "" {
		greeting = fmt.Sprintf("¡Hola %s!", firstName)
	}
	return greeting + " 👋\n\n📍 Ingrese el nombre del punto de venta:"
}

func promptContainer() string {
	return "📦 Selecciona el tipo de caja:"
}

func (m *Machine) promptSubItems() string {
	var b strings.Builder
	b.WriteString("🧊 Selecciona los acrílicos (escribe los números separados por comas, ej: 1,2,4):\n\n")
	for i := 1; i <= m.catalog.SubItemCount; i++ {
		b.WriteString(fmt.Sprintf("ACRILICO %d", i))
		if i%3 == 0 || i == m.catalog.SubItemCount {
			b.WriteString("\n")
		} else {
			b.WriteString(", ")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Machine) promptPhotos(name string, position, total int) string {
	return fmt.Sprintf("📸 Envía las fotos del %s (máximo %d fotos).\n\n📊 Progreso: Acrílico %d de %d",
		name, m.catalog.MaxPhotosPerItem, position, total)
}

func (m *Machine) promptDecision(count int, name string) string {
	return fmt.Sprintf("✅ Foto recibida (%d/%d para %s).\n\n"+
		"Opciones:\n"+
		"• /siguiente - Enviar otra foto del mismo acrílico\n"+
		"• /acrilico - Pasar al siguiente acrílico\n"+
		"• /finalizar - Guardar todo en el archivo",
		count, m.catalog.MaxPhotosPerItem, name)
}

func (m *Machine) noticeCapacity() string {
	return fmt.Sprintf("⚠️ Ya has enviado el máximo de %d fotos para este acrílico.", m.catalog.MaxPhotosPerItem)
}

func (m *Machine) noticeContinueRejected() string {
	return fmt.Sprintf("🚫 Ya has alcanzado el límite de %d fotos para este acrílico. Usa /acrilico o /finalizar.",
		m.catalog.MaxPhotosPerItem)
}

func noticeInvalidSubItems() string {
	return "⚠️ Entrada inválida. Por favor, escribe los números de los acrílicos separados por comas (ej: 1,2,3)."
}

func noticeInvalidContainer() string {
	return "⚠️ Selecciona una de las cajas del teclado."
}

func noticeEmptyPointOfSale() string {
	return "⚠️ El nombre del punto de venta no puede estar vacío."
}

func noticeExpectingPhoto() string {
	return "📸 Envía una foto, o usa /cancelar para salir."
}

func noticeExpectingDecision() string {
	return "Usa /siguiente, /acrilico o /finalizar."
}

func noticeCanceled() string {
	return "❌ Proceso cancelado. Puedes iniciar nuevamente con /start."
}

func noticeAllComplete() string {
	return "✅ Has completado todos los acrílicos. Finalizando automáticamente..."
}
