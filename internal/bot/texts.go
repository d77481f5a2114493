package bot

// Informational texts outside the collection workflow, kept in Spanish
// to match the workflow prompts.

const healthText = "🟢 Bot funcionando correctamente!\n\n" +
	"📊 Estado: Activo\n\n" +
	"💡 Usa /diagnostico para una verificación completa"

const helpText = "🤖 GUÍA DE USO DEL BOT\n\n" +
	"Comandos disponibles:\n" +
	"• /start - Iniciar proceso de subida\n" +
	"• /health - Verificar estado del bot\n" +
	"• /help - Mostrar esta ayuda\n" +
	"• /cancelar - Cancelar proceso actual\n\n" +
	"Durante el proceso:\n" +
	"• /siguiente - Enviar otra foto del mismo acrílico\n" +
	"• /acrilico - Cambiar al siguiente acrílico\n" +
	"• /finalizar - Guardar todo en el archivo\n\n" +
	"Flujo del proceso:\n" +
	"1️⃣ Nombre del punto de venta\n" +
	"2️⃣ Seleccionar tipo de caja\n" +
	"3️⃣ Elegir acrílicos (números separados por comas)\n" +
	"4️⃣ Enviar fotos (máx. 5 por acrílico)\n" +
	"5️⃣ Subida automática al archivo"

const noSessionText = "No hay un proceso activo. Usa /start para comenzar."

const unknownCommandText = "Comando desconocido. Usa /help para ver los comandos disponibles."

const authFailureText = "❌ Error de conexión con el archivo\n" +
	"No se pudieron validar las credenciales.\n" +
	"Contacta al administrador del sistema."
