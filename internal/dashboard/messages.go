package dashboard

// Toast texts shown by the admin UI.
const (
	msgFetchFailed  = "Failed to load dashboard data."
	msgCreated      = "เพิ่มหลักสูตรใหม่สำเร็จ!"
	msgUpdated      = "แก้ไขข้อมูลหลักสูตรสำเร็จ!"
	msgSaveFailed   = "ไม่สามารถบันทึกข้อมูลได้"
	msgDeleted      = "ลบหลักสูตรสำเร็จ!"
	msgDeleteFailed = "ไม่สามารถลบหลักสูตรได้"
	msgNothingToCSV = "No registration data to export."
	msgExported     = "Export successful!"
	msgExportFailed = "Export failed."
	msgBusy         = "กรุณารอให้การดำเนินการก่อนหน้าเสร็จสิ้น"
)
